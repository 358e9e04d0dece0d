package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch runs the script at path, then reruns it every time the file
// changes, until ctx is canceled. Build failures are reported through
// the handler and keep the watch alive; only watcher failures abort.
func (r *Runner) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors that save via rename
	// replace the inode and a file watch would silently go stale.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if err := r.RunFile(ctx, path); err != nil {
		r.Logger.Debug("Initial build failed, waiting for changes", "err", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, _ := filepath.Abs(event.Name)
			if name != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Delay slightly to ensure the file system is stable, then
			// coalesce the burst a single save produces.
			time.Sleep(100 * time.Millisecond)
			drainEvents(watcher.Events)

			r.Logger.Info("Change detected, rebuilding", "path", path)
			if err := r.RunFile(ctx, path); err != nil {
				r.Logger.Debug("Build failed, waiting for changes", "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.Logger.Warn("Watcher error", "err", err)
		}
	}
}

func drainEvents(events <-chan fsnotify.Event) {
	for {
		select {
		case <-events:
		default:
			return
		}
	}
}
