package store

import (
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/hazyhaar/srscore/internal/errs"
)

// WatchImportFile watches path for writes and invokes onChange each time
// its modification time advances past what import_watch last recorded
// for it — an unchanged re-save (same mtime) is a no-op. This is an
// EXPANSION over spec.md: the teacher's hot-reload watcher (fsnotify
// over its module directory) generalized to a single legacy-import file
// instead of Go source.
//
// The returned stop function closes the underlying watcher; callers
// should defer it.
func (s *Store) WatchImportFile(path string, onChange func(path string)) (stop func() error, err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errs.Storage("watch import", err)
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, errs.Storage("watch import add", err)
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if s.recordImportSeen(path) {
					s.emit("import_detected", path)
					onChange(path)
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return w.Close, nil
}

// recordImportSeen reports whether path's mtime has advanced since the
// last recorded watch, updating import_watch as a side effect.
func (s *Store) recordImportSeen(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	mtime := float64(info.ModTime().UnixNano()) / 1e9

	var lastMtime float64
	err = s.db.QueryRow(`SELECT last_modified FROM import_watch WHERE path = ?`, path).Scan(&lastMtime)
	changed := err != nil || mtime > lastMtime

	s.db.Exec(`
		INSERT INTO import_watch (path, last_modified, last_count) VALUES (?, ?, 0)
		ON CONFLICT(path) DO UPDATE SET last_modified = excluded.last_modified
	`, path, mtime)

	return changed
}
