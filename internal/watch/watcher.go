// Package watch notifies a callback, debounced, as the build tool appends
// to a trace file, so callers can re-parse the grown file.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher monitors one log file and invokes a callback, debounced, each
// time the file grows or is replaced. The directory is watched rather than
// the file itself so the watch survives the log being rotated into place.
type Watcher struct {
	path     string
	onChange func()
	debounce *Debouncer
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	doneCh   chan struct{}
}

// NewWatcher creates a watcher for path. onChange runs on a timer
// goroutine after each debounced change.
func NewWatcher(path string, debounce time.Duration, onChange func(), logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		debounce: NewDebouncer(debounce),
		watcher:  fsw,
		logger:   logger,
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It is non-blocking; the watch runs until ctx is
// cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.logger.Info("watching logfile", zap.String("path", w.path))
	go w.run(ctx)
	return nil
}

// Stop closes the watcher and waits for the goroutine to exit.
func (w *Watcher) Stop() {
	w.debounce.Cancel()
	_ = w.watcher.Close()
	<-w.doneCh
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	for {
		select {
		case <-ctx.Done():
			w.debounce.Cancel()
			_ = w.watcher.Close()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug("logfile changed", zap.String("op", event.Op.String()))
			w.debounce.Debounce(w.onChange)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}
