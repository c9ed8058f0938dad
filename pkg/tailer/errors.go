package tailer

import "errors"

// Common errors returned by the tailer.
var (
	// ErrNoLedger is returned by New when Config.Ledger is nil.
	ErrNoLedger = errors.New("ledger is required")

	// ErrNoSink is returned by New when Config.Sink is nil.
	ErrNoSink = errors.New("sink is required")

	// ErrEmitFailed wraps a sink write failure. Lines emitted before the
	// failure are still consumed.
	ErrEmitFailed = errors.New("emit failed")

	// ErrOffsetOverflow is returned when a ledger offset cannot be seeked to.
	ErrOffsetOverflow = errors.New("offset exceeds seekable range")
)
