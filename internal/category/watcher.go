package category

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the mapping whenever the underlying file changes, until ctx
// is cancelled. The watch is placed on the containing directory because
// editors and config pushes commonly replace the file instead of writing it
// in place. Reload failures are logged and leave the last good mapping
// untouched.
func (s *Store) Watch(ctx context.Context, logger *slog.Logger) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return err
	}

	logger.Info("categories: watching mapping file", slog.String("path", s.path))

	// reloadTimer debounces bursts of write events into one reload.
	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("categories: watcher stopped")
			return nil

		case <-reloadCh:
			if err := s.Reload(); err != nil {
				logger.Warn("categories: reload failed, keeping previous mapping",
					slog.String("path", s.path),
					slog.String("error", err.Error()))
				continue
			}
			logger.Info("categories: mapping reloaded", slog.String("path", s.path))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(s.path) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("categories: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}
