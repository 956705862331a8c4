// Package watch re-runs a script whenever its file changes on disk.
// It backs the CLI's --watch mode for iterating on demo scripts.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config configures the script watcher.
type Config struct {
	// DebounceInterval is the quiet period after the last write before
	// OnChange fires. Editors often produce bursts of writes; they are
	// coalesced into one event. Default: 500ms.
	DebounceInterval time.Duration

	// OnChange is called with the script path after a debounced change.
	OnChange func(path string)

	// OnError is called when the underlying watcher reports an error.
	OnError func(err error)

	// Logger for structured logging.
	Logger *slog.Logger
}

// Watcher monitors one script file and fires a debounced callback when it
// changes.
type Watcher struct {
	path    string
	config  Config
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu       sync.Mutex
	pending  time.Time
	watching bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a watcher for the given script path.
func New(path string, config Config) (*Watcher, error) {
	if config.DebounceInterval == 0 {
		config.DebounceInterval = 500 * time.Millisecond
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:    filepath.Clean(path),
		config:  config,
		watcher: fsWatcher,
		logger:  config.Logger,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start begins watching. Call Stop to halt.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.watching = true
	w.mu.Unlock()

	// Watch the directory, not the file: editors that save via rename
	// replace the inode, which would silently drop a file-level watch.
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Debug("watching script", "path", w.path)

	go w.eventLoop(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop halts the watcher and waits for its loops to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.watching {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	return w.watcher.Close()
}

func (w *Watcher) eventLoop(ctx context.Context) {
	defer close(w.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			w.mu.Lock()
			w.pending = time.Now()
			w.mu.Unlock()
			w.logger.Debug("script changed", "path", event.Name, "op", event.Op.String())

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("fsnotify error", "error", err)
			if w.config.OnError != nil {
				w.config.OnError(err)
			}
		}
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	ticker := time.NewTicker(w.config.DebounceInterval / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.mu.Lock()
			fire := !w.pending.IsZero() && time.Since(w.pending) >= w.config.DebounceInterval
			if fire {
				w.pending = time.Time{}
			}
			w.mu.Unlock()

			if fire && w.config.OnChange != nil {
				w.config.OnChange(w.path)
			}
		}
	}
}
