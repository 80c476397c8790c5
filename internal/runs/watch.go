package runs

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 250 * time.Millisecond

// Watch calls onChange, debounced, whenever entries directly under base are
// created, removed or renamed. It returns once the watcher is installed; the
// watcher stops when ctx is done. onChange runs on a background goroutine.
func Watch(ctx context.Context, base string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := w.Add(base); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()

		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(watchDebounce, onChange)

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("run watcher error", "dir", base, "err", err)
			}
		}
	}()

	return nil
}
