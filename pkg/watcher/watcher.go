package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/0xmhha/multitail/pkg/logger"
)

// watcher implements the Watcher interface using fsnotify.
type watcher struct {
	fsw    *fsnotify.Watcher
	logger logger.Logger
	config Config

	events chan Event
	errors chan error

	mu       sync.RWMutex
	running  bool
	closed   bool
	stopChan chan struct{}

	// done is closed first on Close so pending sends give up before the
	// channels are closed.
	done      chan struct{}
	closeOnce sync.Once

	// Debouncing state. pending holds the merged event each timer delivers.
	debounceTimers map[string]*time.Timer
	pending        map[string]Event
	debounceMu     sync.Mutex

	// Circuit breaker state. Only touched by the processing goroutine.
	failureCount int
	breakerOpen  bool
}

// New creates a new file system watcher.
func New(cfg Config, log logger.Logger) (Watcher, error) {
	// Set defaults.
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = 10 * time.Millisecond
	}
	if cfg.CircuitBreakerThreshold <= 0 {
		cfg.CircuitBreakerThreshold = 5
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 256
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &watcher{
		fsw:            fsw,
		logger:         log,
		config:         cfg,
		events:         make(chan Event, cfg.EventBuffer),
		errors:         make(chan error, 10),
		stopChan:       make(chan struct{}),
		done:           make(chan struct{}),
		debounceTimers: make(map[string]*time.Timer),
		pending:        make(map[string]Event),
	}

	log.Debug("file watcher created",
		"debounce_interval", cfg.DebounceInterval,
		"circuit_breaker_threshold", cfg.CircuitBreakerThreshold)

	return w, nil
}

// Start implements Watcher.Start.
func (w *watcher) Start(ctx context.Context, roots []string) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	if w.running {
		w.mu.Unlock()
		return ErrAlreadyStarted
	}
	w.running = true
	w.mu.Unlock()

	if len(roots) == 0 {
		w.setStopped()
		return ErrNoRoots
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			w.setStopped()
			return fmt.Errorf("%w: %s: %v", ErrInvalidPath, root, err)
		}
		if !info.IsDir() {
			w.setStopped()
			return fmt.Errorf("%w: %s: not a directory", ErrInvalidPath, root)
		}

		if err := w.addPathRecursive(root); err != nil {
			w.setStopped()
			return fmt.Errorf("failed to add path %s: %w", root, err)
		}
	}

	w.logger.Info("watcher started",
		"roots", roots,
		"root_count", len(roots))

	go w.processEvents(ctx)

	return nil
}

// setStopped clears the running flag after a failed Start.
func (w *watcher) setStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// Stop implements Watcher.Stop.
func (w *watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.running {
		return ErrNotStarted
	}

	close(w.stopChan)
	w.running = false

	w.logger.Debug("watcher stopped")
	return nil
}

// Events implements Watcher.Events.
func (w *watcher) Events() <-chan Event {
	return w.events
}

// Errors implements Watcher.Errors.
func (w *watcher) Errors() <-chan error {
	return w.errors
}

// Close implements Watcher.Close.
func (w *watcher) Close() error {
	// Release any timer blocked on a full events channel before taking the
	// write lock it is holding a read lock against.
	w.closeOnce.Do(func() { close(w.done) })

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	w.closed = true

	if w.running {
		close(w.stopChan)
		w.running = false
	}

	close(w.events)
	close(w.errors)

	// Cancel debounce timers.
	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = nil
	w.pending = nil
	w.debounceMu.Unlock()

	if err := w.fsw.Close(); err != nil {
		w.logger.Error("failed to close fsnotify watcher", "error", err)
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	w.logger.Debug("watcher closed")
	return nil
}

// processEvents handles events from fsnotify.
func (w *watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("event processing stopped", "reason", "context cancelled")
			return

		case <-w.stopChan:
			w.logger.Debug("event processing stopped", "reason", "stop signal")
			return

		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				w.logger.Warn("fsnotify events channel closed")
				return
			}

			w.failureCount = 0
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.logger.Warn("fsnotify errors channel closed")
				return
			}

			w.handleError(err)
		}
	}
}

// handleEvent converts a single fsnotify event and debounces it.
func (w *watcher) handleEvent(event fsnotify.Event) {
	var op Op
	if event.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if event.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if event.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if event.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if event.Has(fsnotify.Chmod) {
		op |= OpChmod
	}
	if op == 0 {
		w.logger.Debug("unknown fsnotify operation",
			"op", event.Op,
			"path", event.Name)
		return
	}

	if op.Has(OpCreate) {
		// Lstat so a symlink to a directory is not followed into a second
		// registration of the same tree.
		if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
			w.registerNewDir(event.Name)
			return
		}
	}

	w.debounceEvent(Event{
		Path:      event.Name,
		Op:        op,
		Timestamp: time.Now(),
	})
}

// registerNewDir starts watching a directory created after Start. Files
// that were written into it before the watch was in place are reported as
// created so their content is not missed.
func (w *watcher) registerNewDir(dir string) {
	if err := w.addPathRecursive(dir); err != nil {
		w.logger.Warn("failed to watch new directory",
			"path", dir,
			"error", err)
		return
	}

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip but continue walking.
		}
		if d.Type().IsRegular() {
			w.debounceEvent(Event{
				Path:      path,
				Op:        OpCreate,
				Timestamp: time.Now(),
			})
		}
		return nil
	})
	if err != nil {
		w.logger.Debug("error walking new directory", "path", dir, "error", err)
	}
}

// debounceEvent implements event debouncing.
//
// Events for the same path within the window are merged into one: the
// delivered Op is the union of every op seen, so a trailing chmod or rename
// never hides a write that came before it.
func (w *watcher) debounceEvent(event Event) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimers == nil {
		return
	}

	// Cancel existing timer for this path.
	if timer, exists := w.debounceTimers[event.Path]; exists {
		timer.Stop()
	}
	if prev, exists := w.pending[event.Path]; exists {
		event.Op |= prev.Op
	}
	w.pending[event.Path] = event

	path := event.Path
	var timer *time.Timer
	timer = time.AfterFunc(w.config.DebounceInterval, func() {
		// A newer timer owns the merged event when this one lost the race
		// with Stop.
		w.debounceMu.Lock()
		if w.debounceTimers == nil || w.debounceTimers[path] != timer {
			w.debounceMu.Unlock()
			return
		}
		merged := w.pending[path]
		delete(w.debounceTimers, path)
		delete(w.pending, path)
		w.debounceMu.Unlock()

		w.mu.RLock()
		if !w.closed {
			select {
			case w.events <- merged:
			case <-w.done:
			}
		}
		w.mu.RUnlock()
	})
	w.debounceTimers[path] = timer
}

// handleError processes fsnotify errors with circuit breaker pattern.
func (w *watcher) handleError(err error) {
	w.failureCount++

	w.logger.Error("fsnotify error",
		"error", err,
		"failure_count", w.failureCount)

	if w.failureCount >= w.config.CircuitBreakerThreshold {
		if w.breakerOpen {
			return
		}
		w.breakerOpen = true

		w.logger.Error("circuit breaker opened",
			"threshold", w.config.CircuitBreakerThreshold)

		w.sendError(ErrCircuitBreakerOpen)
		return
	}

	w.sendError(err)
}

// sendError delivers err without blocking the processing goroutine.
func (w *watcher) sendError(err error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return
	}

	select {
	case w.errors <- err:
	default:
		w.logger.Warn("error channel full, dropping error")
	}
}

// addPathRecursive adds a path and all subdirectories to the watcher.
func (w *watcher) addPathRecursive(path string) error {
	if err := w.fsw.Add(path); err != nil {
		return fmt.Errorf("failed to add path: %w", err)
	}

	w.logger.Debug("added watch path", "path", path)

	return filepath.Walk(path, func(subPath string, info os.FileInfo, err error) error {
		if err != nil {
			w.logger.Warn("error walking path",
				"path", subPath,
				"error", err)
			return nil // Skip but continue walking.
		}

		if !info.IsDir() || subPath == path {
			return nil
		}

		if addErr := w.fsw.Add(subPath); addErr != nil {
			w.logger.Warn("failed to add subdirectory",
				"path", subPath,
				"error", addErr)
			return nil // Skip but continue walking.
		}

		w.logger.Debug("added watch subdirectory", "path", subPath)
		return nil
	})
}
