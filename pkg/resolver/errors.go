package resolver

import "errors"

// Common errors returned by the resolver.
var (
	// ErrInvalidPath is returned when an argument cannot be made absolute.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNoWorkingDir is returned when no directory was given and the
	// working directory cannot be determined.
	ErrNoWorkingDir = errors.New("cannot determine working directory")
)
