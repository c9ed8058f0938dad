package monitor

import "errors"

var (
	// ErrMonitorRunning is returned when Run is called on a running monitor.
	ErrMonitorRunning = errors.New("monitor is already running")

	// ErrInvalidConfig is returned when a required collaborator is missing.
	ErrInvalidConfig = errors.New("invalid monitor configuration")
)
