package prefs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval collapses bursts of writes into a single reload.
var DebounceInterval = 100 * time.Millisecond

// Watch reloads the store whenever its file changes on disk, calling
// onReload (if non-nil) after each reload. It watches the parent directory
// so editors that replace the file atomically are still seen. Watch blocks
// until ctx is done.
func (s *Store) Watch(ctx context.Context, onReload func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	s.logger.Debug(ctx, "watching preferences", "path", s.path)

	target := filepath.Clean(s.path)
	timer := time.NewTimer(DebounceInterval)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(DebounceInterval)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error(ctx, "preference watcher error", "error", err)

		case <-timer.C:
			s.Reload()
			s.logger.Info(ctx, "preferences reloaded", "path", s.path)
			if onReload != nil {
				onReload()
			}
		}
	}
}
