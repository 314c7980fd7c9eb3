package store

import (
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch observes the given data files and invokes reload after edits settle.
// Events are debounced so editors that write-then-rename only trigger one
// reload. The watcher goroutine exits when the watcher is closed by the
// process shutting down; failures are logged, never fatal.
func Watch(reload func(), paths ...string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	added := false
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := w.Add(p); err != nil {
			slog.Error("watch add", "path", p, "err", err)
			continue
		}
		added = true
	}
	if !added {
		w.Close()
		return nil
	}

	go func() {
		defer w.Close()
		debounce := time.NewTimer(0)
		if !debounce.Stop() {
			<-debounce.C
		}
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					if err := w.Add(ev.Name); err != nil {
						slog.Error("watch re-add", "path", ev.Name, "err", err)
					}
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					if !debounce.Stop() {
						select {
						case <-debounce.C:
						default:
						}
					}
					debounce.Reset(250 * time.Millisecond)
				}
			case <-debounce.C:
				reload()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Error("watch error", "err", err)
			}
		}
	}()
	return nil
}
