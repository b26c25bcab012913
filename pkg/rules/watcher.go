package rules

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a rules directory for changes and triggers registry
// reloads. Rapid event bursts (editors writing temp files, multi-file
// saves) are debounced so one save triggers one reload.
type Watcher struct {
	registry *Registry
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce *debouncer
	onReload func(error)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// DefaultDebounceInterval is the quiet period before a reload triggers.
const DefaultDebounceInterval = 100 * time.Millisecond

// NewWatcher creates a watcher for the registry's rules directory.
func NewWatcher(registry *Registry, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		registry: registry,
		watcher:  fsw,
		logger:   logger.With("component", "rules.watcher"),
		debounce: newDebouncer(DefaultDebounceInterval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// OnReload registers a callback invoked after every reload attempt with
// the reload result (nil on success). Must be set before Watch is called.
func (w *Watcher) OnReload(fn func(error)) {
	w.onReload = fn
}

// Watch blocks processing file events until the context is cancelled or
// Stop is called. A reload failure keeps the previous snapshot and is
// logged, not fatal: the watcher keeps running.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	if err := w.watcher.Add(w.registry.Dir()); err != nil {
		return fmt.Errorf("failed to watch %q: %w", w.registry.Dir(), err)
	}

	w.logger.Info("rule table watcher started",
		"dir", w.registry.Dir(),
		"debounce_ms", DefaultDebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("rule table watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("rule table watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if !shouldProcessEvent(event) {
				continue
			}

			w.logger.Debug("rule file event",
				"path", event.Name,
				"op", event.Op.String(),
			)

			path := event.Name
			w.debounce.trigger(func() { w.reload(path) })

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("rule table watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.debounce.stop()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// reload performs one registry reload and reports the result to the
// OnReload callback. A failure keeps the previous snapshot.
func (w *Watcher) reload(path string) {
	w.logger.Info("reloading rule tables", "path", path)
	err := w.registry.Load()
	if err != nil {
		w.logger.Error("rule table reload failed, keeping previous snapshot",
			"error", err,
		)
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}

// shouldProcessEvent reports whether a file event should trigger a reload.
// Only writes/creates/renames of .csv files matter.
func shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".csv")
}

// debouncer collects rapid events and runs the callback only after a quiet
// period.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopCh   chan struct{}
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// trigger arms the debounce timer with a new event. The callback runs after
// the debounce interval if no further events arrive.
func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
			d.mu.Lock()
			cb := d.callback
			d.mu.Unlock()

			if cb != nil {
				cb()
			}
		}
	})
}

// stop cancels any pending callback.
func (d *debouncer) stop() {
	close(d.stopCh)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
