package output

import "errors"

// ErrUnknownFormat is returned when the output format is not recognized.
var ErrUnknownFormat = errors.New("unknown output format")
