package assets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 150 * time.Millisecond

// Watcher reports changes below an assets directory so open pages can reload.
// Bursts of events, such as an editor's save, are coalesced into one call.
type Watcher struct {
	dir      string
	onChange func()

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	timer   *time.Timer
}

// NewWatcher creates a watcher for dir. onChange runs on its own goroutine.
func NewWatcher(dir string, onChange func()) *Watcher {
	return &Watcher{dir: dir, onChange: onChange}
}

// Start begins watching dir and every directory below it. Watching stops
// when ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file system watcher: %w", err)
	}

	err = filepath.Walk(w.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return fmt.Errorf("failed to add directories to watcher: %w", err)
	}

	w.mu.Lock()
	w.watcher = watcher
	w.mu.Unlock()

	go w.watch(ctx)
	slog.Info("Watching static assets for changes", "directory", w.dir)
	return nil
}

func (w *Watcher) watch(ctx context.Context) {
	defer func() {
		w.mu.Lock()
		w.watcher.Close()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		slog.Debug("Asset watcher stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Asset watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	slog.Debug("Asset changed", "event", event.Op.String(), "path", event.Name)

	// New directories need watching too.
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				slog.Warn("Failed to watch new directory", "path", event.Name, "error", err)
			}
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounce, w.onChange)
}
