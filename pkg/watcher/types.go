// Package watcher provides real-time change notification for a set of
// directory trees.
//
// It uses fsnotify to watch every root and every directory below it, and
// debounces events per path so a burst of writes to one file is delivered
// as a single event. Directories created while watching are registered
// automatically and are never delivered as events themselves.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//	    DebounceInterval: 10 * time.Millisecond,
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.Start(ctx, []string{"/var/log/app", "/var/log/nginx"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range w.Events() {
//	    fmt.Printf("File %s: %s\n", event.Path, event.Op)
//	}
package watcher

import (
	"context"
	"strings"
	"time"
)

// Op describes a file operation type.
type Op uint32

// File operation types.
const (
	OpCreate Op = 1 << iota // File created
	OpWrite                 // File modified
	OpRemove                // File deleted
	OpRename                // File renamed/moved
	OpChmod                 // Metadata changed
)

// opNames lists the operations in the order String joins them.
var opNames = []struct {
	op   Op
	name string
}{
	{OpCreate, "CREATE"},
	{OpWrite, "WRITE"},
	{OpRemove, "REMOVE"},
	{OpRename, "RENAME"},
	{OpChmod, "CHMOD"},
}

// Has reports whether op contains any of the operations in h.
func (op Op) Has(h Op) bool {
	return op&h != 0
}

// String returns a human-readable operation name. Merged operations are
// joined with "|", e.g. "WRITE|CHMOD".
func (op Op) String() string {
	var b strings.Builder
	for _, n := range opNames {
		if op.Has(n.op) {
			if b.Len() > 0 {
				b.WriteByte('|')
			}
			b.WriteString(n.name)
		}
	}
	if b.Len() == 0 {
		return "UNKNOWN"
	}
	return b.String()
}

// Event represents a file system event.
type Event struct {
	// Path is the absolute path to the file that triggered the event.
	Path string

	// Op is the operation that triggered the event. Debouncing merges
	// several operations on one path, so more than one bit may be set.
	Op Op

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Watcher provides file system monitoring.
type Watcher interface {
	// Start registers every root and all of its sub-directories, then
	// begins delivering events in the background. It returns once
	// registration is complete.
	//
	// A root that does not exist, is not a directory, or cannot be
	// registered is fatal.
	Start(ctx context.Context, roots []string) error

	// Stop stops event processing. Events already debounced may still be
	// delivered until Close.
	Stop() error

	// Events returns the channel for receiving file system events.
	//
	// Events are debounced based on the configured interval.
	// The channel is closed when the watcher is closed.
	Events() <-chan Event

	// Errors returns the channel for receiving non-fatal watcher errors.
	// The channel is closed when the watcher is closed.
	Errors() <-chan error

	// Close releases resources and closes both channels. It is safe to
	// call more than once.
	Close() error
}

// Config contains watcher configuration.
type Config struct {
	// DebounceInterval is the time to wait before emitting an event.
	// A newer event for the same path within this interval replaces the
	// pending one.
	// Default: 10ms.
	DebounceInterval time.Duration

	// CircuitBreakerThreshold is the number of consecutive notifier
	// errors after which ErrCircuitBreakerOpen is reported.
	// Default: 5.
	CircuitBreakerThreshold int

	// EventBuffer is the capacity of the Events channel.
	// Default: 256.
	EventBuffer int
}
