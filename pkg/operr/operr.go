// Package operr defines the typed failures produced by per-file operations.
//
// Every local failure (listing a root, reading an entry's metadata, opening,
// seeking or reading a tailed file) is returned as an *Error carrying its
// Kind and the path involved. The consumer loop is the single place where
// these are reported; nothing below it logs and continues on its own.
//
// Example usage:
//
//	if err := t.Tail(path); err != nil {
//	    if errors.Is(err, operr.ErrOpenFailed) {
//	        // retried implicitly on the next event for path
//	    }
//	}
package operr

import (
	"errors"
	"fmt"
)

// Kind classifies a failed operation.
type Kind uint8

// Operation kinds.
const (
	OpenFailed Kind = iota + 1 // Opening a tailed file
	SeekFailed                 // Seeking to the ledger offset
	ReadFailed                 // Reading appended bytes
	ListFailed                 // Listing a watch root
	StatFailed                 // Reading one entry's metadata
)

// Sentinel errors, one per Kind, for use with errors.Is.
var (
	ErrOpenFailed = errors.New("open failed")
	ErrSeekFailed = errors.New("seek failed")
	ErrReadFailed = errors.New("read failed")
	ErrListFailed = errors.New("list failed")
	ErrStatFailed = errors.New("stat failed")
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case OpenFailed:
		return "OPEN"
	case SeekFailed:
		return "SEEK"
	case ReadFailed:
		return "READ"
	case ListFailed:
		return "LIST"
	case StatFailed:
		return "STAT"
	default:
		return "UNKNOWN"
	}
}

// Retryable reports whether the failure is retried implicitly by the next
// event for the same path.
func (k Kind) Retryable() bool {
	return k == OpenFailed || k == SeekFailed || k == ReadFailed
}

func (k Kind) sentinel() error {
	switch k {
	case OpenFailed:
		return ErrOpenFailed
	case SeekFailed:
		return ErrSeekFailed
	case ReadFailed:
		return ErrReadFailed
	case ListFailed:
		return ErrListFailed
	case StatFailed:
		return ErrStatFailed
	default:
		return nil
	}
}

// Error is a failed operation on a single path.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

// New returns an *Error for kind on path caused by err.
func New(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the Kind of err if it wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind, true
	}
	return 0, false
}
