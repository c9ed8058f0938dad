package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/0xmhha/multitail/pkg/logger"
	"github.com/0xmhha/multitail/pkg/operr"
	"github.com/0xmhha/multitail/pkg/router"
	"github.com/0xmhha/multitail/pkg/tailer"
	"github.com/0xmhha/multitail/pkg/watcher"
)

// monitor implements the Monitor interface.
type monitor struct {
	config  Config
	logger  logger.Logger
	watcher watcher.Watcher
	router  *router.Router
	tailer  *tailer.Tailer

	mu      sync.RWMutex
	running bool
	stats   Stats
}

// New creates a consumer loop over an already started watcher.
//
// Parameters:
//   - cfg: Monitor configuration
//   - w: Source of change events
//   - r: Event router
//   - t: Tailer holding the ledger
//   - log: Logger instance
func New(cfg Config, w watcher.Watcher, r *router.Router, t *tailer.Tailer, log logger.Logger) (Monitor, error) {
	if w == nil || r == nil || t == nil {
		return nil, fmt.Errorf("%w: watcher, router and tailer are required", ErrInvalidConfig)
	}
	if cfg.StatsInterval < 0 {
		return nil, fmt.Errorf("%w: negative stats interval", ErrInvalidConfig)
	}

	return &monitor{
		config:  cfg,
		logger:  log,
		watcher: w,
		router:  r,
		tailer:  t,
	}, nil
}

// Run implements Monitor.Run.
func (m *monitor) Run(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrMonitorRunning
	}
	m.running = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	var tick <-chan time.Time
	if m.config.StatsInterval > 0 {
		ticker := time.NewTicker(m.config.StatsInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	events := m.watcher.Events()
	errs := m.watcher.Errors()

	m.logger.Debug("consumer loop started")

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("consumer loop stopped", "reason", "context cancelled")
			return nil

		case event, ok := <-events:
			if !ok {
				m.logger.Debug("consumer loop stopped", "reason", "events channel closed")
				return nil
			}

			m.handleEvent(event)

		case err, ok := <-errs:
			if !ok {
				// Events decide when the loop ends.
				errs = nil
				continue
			}

			m.handleWatcherError(err)

		case <-tick:
			m.logger.Debug("consumer stats", statsFields(m.Stats())...)
		}
	}
}

// Stats implements Monitor.Stats.
func (m *monitor) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.stats
}

// handleEvent routes one event and tails the file when it is accepted.
func (m *monitor) handleEvent(event watcher.Event) {
	path, decision := m.router.Route(event)

	m.logger.Debug("event received",
		"path", event.Path,
		"op", event.Op,
		"decision", decision)

	m.count(func(s *Stats) {
		s.Events++
		switch decision {
		case router.Ignored:
			s.Ignored++
		case router.OutOfScope:
			s.OutOfScope++
		case router.Filtered:
			s.Filtered++
		}
	})

	if decision != router.Tail {
		return
	}

	res, err := m.tailer.Tail(path)
	m.count(func(s *Stats) {
		s.Lines += int64(res.Lines)
		if err != nil {
			s.Failures++
		} else {
			s.Tailed++
		}
	})

	if err != nil {
		m.reportTailError(path, err)
	}
}

// reportTailError is the single reporting boundary for tail failures.
func (m *monitor) reportTailError(path string, err error) {
	if kind, ok := operr.KindOf(err); ok {
		m.logger.Error("tail failed",
			"kind", kind,
			"path", path,
			"retryable", kind.Retryable(),
			"error", err)
		return
	}

	if errors.Is(err, tailer.ErrEmitFailed) {
		m.logger.Error("output failed", "path", path, "error", err)
		return
	}

	m.logger.Error("tail failed", "path", path, "error", err)
}

// handleWatcherError logs a non-fatal watcher error.
func (m *monitor) handleWatcherError(err error) {
	m.count(func(s *Stats) { s.WatcherErrors++ })

	if errors.Is(err, watcher.ErrCircuitBreakerOpen) {
		m.logger.Error("watcher unhealthy, events may be missed", "error", err)
		return
	}

	m.logger.Warn("watcher error", "error", err)
}

// count applies fn to the counters under the lock.
func (m *monitor) count(fn func(s *Stats)) {
	m.mu.Lock()
	fn(&m.stats)
	m.mu.Unlock()
}

// statsFields flattens s into logger key/value pairs.
func statsFields(s Stats) []interface{} {
	return []interface{}{
		"events", s.Events,
		"tailed", s.Tailed,
		"lines", s.Lines,
		"ignored", s.Ignored,
		"out_of_scope", s.OutOfScope,
		"filtered", s.Filtered,
		"failures", s.Failures,
		"watcher_errors", s.WatcherErrors,
	}
}

// LogStats writes s as a single info line.
func LogStats(log logger.Logger, msg string, s Stats) {
	log.Info(msg, statsFields(s)...)
}
