package store

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/nedpals/enumcomplete/analysis"
	"github.com/nedpals/enumcomplete/completion"
	"github.com/nedpals/enumcomplete/helpers"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
)

type Document struct {
	Filepath string
	Content  []byte
	Version  int
	Language *analysis.Language

	file          *analysis.SourceFile
	parsedVersion int
}

// SourceFile returns the parsed document, parsing it again only when the
// content changed since the last call.
func (doc *Document) SourceFile() (*analysis.SourceFile, error) {
	if doc.file != nil && doc.parsedVersion == doc.Version {
		return doc.file, nil
	}

	file, err := analysis.Parse(doc.Filepath, doc.Content, doc.Language)
	if err != nil {
		return nil, err
	}

	doc.file = file
	doc.parsedVersion = doc.Version
	return file, nil
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(st *Store) {
		st.logger = logger
	}
}

// WithFS sets the file system that files which are not open are read
// from.
func WithFS(sfs *helpers.SharedFS) Option {
	return func(st *Store) {
		st.fs = sfs
	}
}

// Store holds the documents open in the editor and the files loaded from
// disk on demand. It is the language service the completion plugin queries.
type Store struct {
	mu sync.RWMutex

	// a map of file paths mapped to document contents
	Documents map[string]*Document
	options   completion.CompilerOptions

	fs      *helpers.SharedFS
	loaded  map[string]*analysis.SourceFile
	logger  *zap.Logger
	watcher *watcher
}

func NewStore(opts ...Option) *Store {
	st := &Store{
		Documents: map[string]*Document{},
		options:   completion.CompilerOptions{Target: completion.DefaultTarget},
		loaded:    map[string]*analysis.SourceFile{},
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(st)
	}

	if st.fs == nil {
		st.fs = helpers.NewSharedFS()
	}
	return st
}

func (st *Store) InsertDocument(path string, content string) {
	st.UpdateDocument(path, content, 0)
}

// UpdateDocument replaces the content of a document, opening it when it is
// not open yet.
func (st *Store) UpdateDocument(path string, content string, version int) {
	path = filepath.Clean(path)

	st.mu.Lock()
	defer st.mu.Unlock()

	delete(st.loaded, path)
	if err := st.fs.WriteFile(path, []byte(content)); err != nil {
		st.logger.Warn("unable to mirror document", zap.String("path", path), zap.Error(err))
	}

	if doc, ok := st.Documents[path]; ok {
		doc.Content = []byte(content)
		// bump the version even if the client reuses it so the cache is dropped
		if version <= doc.Version {
			version = doc.Version + 1
		}
		doc.Version = version
		return
	}

	st.Documents[path] = &Document{
		Filepath:      path,
		Content:       []byte(content),
		Version:       version,
		Language:      analysis.SupportedLangs.DetectByPath(path),
		parsedVersion: -1,
	}
}

func (st *Store) DeleteDocument(path string) {
	path = filepath.Clean(path)

	st.mu.Lock()
	defer st.mu.Unlock()

	delete(st.Documents, path)
	delete(st.loaded, path)
	// the disk copy is authoritative again
	_ = st.fs.Remove(path)
}

func (st *Store) Document(path string) (*Document, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	doc, ok := st.Documents[filepath.Clean(path)]
	return doc, ok
}

// Paths returns the paths of the open documents in sorted order.
func (st *Store) Paths() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()

	paths := maps.Keys(st.Documents)
	sort.Strings(paths)
	return paths
}

func (st *Store) SetCompilerOptions(options completion.CompilerOptions) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.options = options
}

func (st *Store) CompilerOptions() completion.CompilerOptions {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.options
}

// Program returns a snapshot of the open documents. Documents that fail to
// parse are left out.
func (st *Store) Program() (completion.Program, bool) {
	program, err := st.Snapshot()
	if err != nil {
		st.logger.Debug("no program available", zap.Error(err))
		return nil, false
	}
	return program, true
}

func (st *Store) Snapshot() (*analysis.Program, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	paths := maps.Keys(st.Documents)
	sort.Strings(paths)

	files := make([]*analysis.SourceFile, 0, len(paths))
	for _, path := range paths {
		doc := st.Documents[path]
		if doc.Language == analysis.UnknownLanguage {
			continue
		}

		file, err := doc.SourceFile()
		if err != nil {
			st.logger.Warn("unable to parse document", zap.String("path", path), zap.Error(err))
			continue
		}
		files = append(files, file)
	}

	return analysis.NewProgram(files, st.options, st), nil
}

// LoadFile parses a file that is not open, reading it through the shared
// file system. Parsed files are cached until the file changes.
func (st *Store) LoadFile(path string) (*analysis.SourceFile, bool) {
	path = filepath.Clean(path)
	lang := analysis.SupportedLangs.DetectByPath(path)
	if lang == analysis.UnknownLanguage {
		return nil, false
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if doc, ok := st.Documents[path]; ok {
		file, err := doc.SourceFile()
		return file, err == nil
	}

	if file, ok := st.loaded[path]; ok {
		return file, true
	}

	content, err := st.fs.ReadFile(path)
	if err != nil {
		return nil, false
	}

	file, err := analysis.Parse(path, content, lang)
	if err != nil {
		st.logger.Warn("unable to parse file", zap.String("path", path), zap.Error(err))
		return nil, false
	}

	st.loaded[path] = file
	st.logger.Debug("loaded file from disk", zap.String("path", path))

	if st.watcher != nil {
		st.watcher.add(path)
	}
	return file, true
}

// invalidate drops the cached copy of a file that is not open.
func (st *Store) invalidate(path string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, open := st.Documents[path]; open {
		return
	}

	if _, ok := st.loaded[path]; ok {
		delete(st.loaded, path)
		_ = st.fs.Remove(path)
		st.logger.Debug("file changed on disk", zap.String("path", path))
	}
}
