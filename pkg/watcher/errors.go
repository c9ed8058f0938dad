package watcher

import "errors"

// Common errors returned by the watcher.
var (
	// ErrWatcherClosed is returned when attempting to use a closed watcher.
	ErrWatcherClosed = errors.New("watcher is closed")

	// ErrAlreadyStarted is returned when Start is called on a running watcher.
	ErrAlreadyStarted = errors.New("watcher already started")

	// ErrNotStarted is returned when Stop is called on a non-running watcher.
	ErrNotStarted = errors.New("watcher not started")

	// ErrCircuitBreakerOpen is sent on Errors once consecutive notifier
	// failures reach the configured threshold.
	ErrCircuitBreakerOpen = errors.New("circuit breaker open")

	// ErrInvalidPath is returned when a watch root is missing or is not a
	// directory.
	ErrInvalidPath = errors.New("invalid watch path")

	// ErrNoRoots is returned when Start is called without roots.
	ErrNoRoots = errors.New("no watch roots")
)
