// Package shaderwatch notices when shader files are rewritten on disk.
package shaderwatch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/jhenstridge/go-inotify"
)

// Settle is how long to wait after a write before reporting it, so editors
// that write in several steps produce one reload.
var Settle = 100 * time.Millisecond

type Watcher struct {
	watcher *inotify.Watcher
	targets map[string]bool
	changed func()
}

// New watches the directories holding paths and calls changed whenever one
// of the files is written or replaced. Whole directories are watched
// because editors commonly save by renaming a new file over the old one.
func New(changed func(), paths ...string) (*Watcher, error) {
	watcher, err := inotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not start inotify watcher: %w", err)
	}

	w := &Watcher{
		watcher: watcher,
		targets: make(map[string]bool),
		changed: changed,
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		w.targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		_, err = watcher.Watch(dir)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("could not watch %s: %w", dir, err)
		}
	}

	return w, nil
}

// Run delivers change notifications until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	defer func() {
		err := w.watcher.Close()
		if err != nil {
			slog.Warn(fmt.Sprintf("could not close watcher: %s", err), slog.String("module", "shaderwatch"))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.watcher.Error:
			if !ok {
				return
			}
			slog.Error(fmt.Sprintf("watch error: %s", err), slog.String("module", "shaderwatch"))
		case ev, ok := <-w.watcher.Event:
			if !ok {
				return
			}
			if !w.relevant(&ev) {
				continue
			}
			slog.Debug(fmt.Sprintf("%s changed, reloading shaders", ev.Name), slog.String("module", "shaderwatch"))
			time.Sleep(Settle)
			w.changed()
		}
	}
}

func (w *Watcher) relevant(ev *inotify.Event) bool {
	if ev.Mask&(inotify.IN_CLOSE_WRITE|inotify.IN_MOVED_TO) == 0 {
		return false
	}
	return w.targets[filepath.Clean(ev.Name)]
}
