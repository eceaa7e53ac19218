package helpers

import (
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/liamg/memoryfs"
)

// SharedFS is an in-memory overlay over the disk. Files written to it shadow
// the disk, and files read from the disk are cached until removed.
type SharedFS struct {
	memfs *memoryfs.FS
}

func NewSharedFS() *SharedFS {
	return &SharedFS{
		memfs: memoryfs.New(),
	}
}

// memPath maps an OS path to a memoryfs path, which is slash separated and
// has no leading slash.
func memPath(name string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(name)), "/")
}

func (sfs *SharedFS) Remove(name string) error {
	return sfs.memfs.Remove(memPath(name))
}

func (sfs *SharedFS) WriteFile(name string, content []byte) error {
	name = memPath(name)
	if dir := path.Dir(name); dir != "." {
		if err := sfs.memfs.MkdirAll(dir, 0o700); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	return sfs.memfs.WriteFile(name, content, 0o700)
}

// Open returns the overlay copy of name, loading it from disk first when
// the overlay does not have it.
func (sfs *SharedFS) Open(name string) (fs.File, error) {
	file, err := sfs.memfs.Open(memPath(name))
	if err == nil {
		return file, nil
	}

	diskFile, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	defer diskFile.Close()

	content, err := io.ReadAll(diskFile)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}

	if err := sfs.WriteFile(name, content); err != nil {
		return nil, err
	}

	return sfs.memfs.Open(memPath(name))
}

func (sfs *SharedFS) ReadFile(name string) ([]byte, error) {
	file, err := sfs.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return io.ReadAll(file)
}
