package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrInvalidDebounce is returned when the debounce window is <= 0.
	ErrInvalidDebounce = errors.New("invalid debounce: must be > 0")

	// ErrInvalidThreshold is returned when the circuit breaker threshold is <= 0.
	ErrInvalidThreshold = errors.New("invalid circuit breaker threshold: must be > 0")

	// ErrInvalidEventBuffer is returned when the event buffer is <= 0.
	ErrInvalidEventBuffer = errors.New("invalid event buffer: must be > 0")

	// ErrInvalidStatsInterval is returned when the stats interval is negative.
	ErrInvalidStatsInterval = errors.New("invalid stats interval: must be >= 0")

	// ErrInvalidOutputFormat is returned when the output format is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format: must be text or json")

	// ErrInvalidTagMode is returned when the tag mode is not recognized.
	ErrInvalidTagMode = errors.New("invalid tag: must be dir, file, or path")

	// ErrInvalidColorMode is returned when the color mode is not recognized.
	ErrInvalidColorMode = errors.New("invalid color: must be auto, always, or never")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrInvalidEnv is returned when an environment override cannot be parsed.
	ErrInvalidEnv = errors.New("invalid environment variable")

	// ErrConfigNotFound is returned when config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")
)
