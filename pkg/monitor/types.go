// Package monitor runs the consumer loop that turns watcher events into
// tailed output.
//
// A Monitor drains the watcher's event channel on a single goroutine. Each
// event is routed, and events the router accepts are handed to the tailer.
// Every failure is reported through the logger and counted; none of them
// stop the loop.
//
// Example usage:
//
//	m, err := monitor.New(monitor.Config{}, w, r, t, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := m.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%+v\n", m.Stats())
package monitor

import (
	"context"
	"time"
)

// Config holds the configuration for the consumer loop.
type Config struct {
	// StatsInterval is how often counters are logged at debug level while
	// running. Zero disables periodic logging.
	StatsInterval time.Duration
}

// Monitor is the single owner of the ledger while it runs.
type Monitor interface {
	// Run blocks until the watcher's event channel is closed or ctx is
	// cancelled. Both end the loop cleanly and return nil.
	Run(ctx context.Context) error

	// Stats returns a snapshot of the loop counters. It is safe to call
	// from any goroutine.
	Stats() Stats
}

// Stats counts what the loop has done so far.
type Stats struct {
	// Events is the number of events received.
	Events int64

	// Tailed is the number of tail operations that completed.
	Tailed int64

	// Ignored counts remove, rename and metadata events.
	Ignored int64

	// OutOfScope counts events below a root when not recursive.
	OutOfScope int64

	// Filtered counts events rejected by include or exclude patterns.
	Filtered int64

	// Lines is the number of lines emitted.
	Lines int64

	// Failures is the number of failed tail operations.
	Failures int64

	// WatcherErrors is the number of errors received from the watcher.
	WatcherErrors int64
}
