package router

import "errors"

// ErrInvalidPattern is returned when an include or exclude pattern does not compile.
var ErrInvalidPattern = errors.New("invalid filename pattern")
