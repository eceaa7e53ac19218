package store

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watcher drops cached disk files when they change. Directories are
// watched instead of files so that editors replacing files on save are
// noticed.
type watcher struct {
	fsw  *fsnotify.Watcher
	mu   sync.Mutex
	dirs map[string]bool
	log  *zap.Logger
}

func (w *watcher) add(path string) {
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dirs[dir] {
		return
	}

	if err := w.fsw.Add(dir); err != nil {
		w.log.Debug("unable to watch directory", zap.String("dir", dir), zap.Error(err))
		return
	}
	w.dirs[dir] = true
}

// Watch starts invalidating files loaded from disk when they change, until
// ctx is done.
func (st *Store) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}

	w := &watcher{fsw: fsw, dirs: map[string]bool{}, log: st.logger}

	st.mu.Lock()
	st.watcher = w
	for path := range st.loaded {
		w.add(path)
	}
	st.mu.Unlock()

	go func() {
		defer func() {
			st.mu.Lock()
			st.watcher = nil
			st.mu.Unlock()
			_ = fsw.Close()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) ||
					event.Has(fsnotify.Rename) || event.Has(fsnotify.Create) {
					st.invalidate(filepath.Clean(event.Name))
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				st.logger.Warn("watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}
