// Package config provides configuration management for multitail.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Command-line flags (highest priority, applied by the caller)
// 2. Environment variables
// 3. Configuration file
// 4. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Roots: %v\n", cfg.Roots)
package config

import (
	"time"

	"github.com/0xmhha/multitail/pkg/logger"
	"github.com/0xmhha/multitail/pkg/output"
)

// Config represents the complete application configuration.
//
// Invariants:
// - Watch.Debounce must be > 0
// - Watch.CircuitBreakerThreshold must be > 0
// - Watch.EventBuffer must be > 0
// - Watch.StatsInterval must be >= 0
// - Output and Logging values must be recognized.
type Config struct {
	// Directories to tail. Empty means the current working directory.
	Roots []string `yaml:"roots" json:"roots"`

	// Echo files below the roots as well as directly inside them.
	Recursive bool `yaml:"recursive" json:"recursive"`

	// Watcher settings
	Watch WatchConfig `yaml:"watch" json:"watch"`

	// File name filters
	Filter FilterConfig `yaml:"filter" json:"filter"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// WatchConfig contains change notification settings.
type WatchConfig struct {
	// Per-path debounce window
	Debounce time.Duration `yaml:"debounce" json:"debounce"`

	// Consecutive notifier errors before the watcher reports itself unhealthy
	CircuitBreakerThreshold int `yaml:"circuit_breaker_threshold" json:"circuit_breaker_threshold"`

	// Capacity of the event queue between watcher and consumer
	EventBuffer int `yaml:"event_buffer" json:"event_buffer"`

	// How often consumer counters are logged at debug level (0 disables)
	StatsInterval time.Duration `yaml:"stats_interval" json:"stats_interval"`
}

// FilterConfig contains file name patterns.
type FilterConfig struct {
	// Glob patterns a file name must match (empty matches everything)
	Include []string `yaml:"include" json:"include"`

	// Glob patterns that reject a file name
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// OutputConfig contains data output settings.
type OutputConfig struct {
	// Line format (text, json)
	Format string `yaml:"format" json:"format"`

	// Source tag (dir, file, path)
	Tag string `yaml:"tag" json:"tag"`

	// Tag coloring (auto, always, never)
	Color string `yaml:"color" json:"color"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output" json:"output"`

	// Log format (text, json)
	Format string `yaml:"format" json:"format"`
}

// Validate checks if the configuration satisfies all invariants.
//
// Thread-safety: This method is read-only and thread-safe.
func (c *Config) Validate() error {
	// Validate watch config
	if c.Watch.Debounce <= 0 {
		return ErrInvalidDebounce
	}
	if c.Watch.CircuitBreakerThreshold <= 0 {
		return ErrInvalidThreshold
	}
	if c.Watch.EventBuffer <= 0 {
		return ErrInvalidEventBuffer
	}
	if c.Watch.StatsInterval < 0 {
		return ErrInvalidStatsInterval
	}

	// Validate output config
	switch output.Format(c.Output.Format) {
	case output.FormatText, output.FormatJSON:
	default:
		return ErrInvalidOutputFormat
	}
	if !output.ValidTagMode(output.TagMode(c.Output.Tag)) {
		return ErrInvalidTagMode
	}
	switch output.ColorMode(c.Output.Color) {
	case output.ColorAuto, output.ColorAlways, output.ColorNever:
	default:
		return ErrInvalidColorMode
	}

	// Validate logging config
	if !logger.ValidLevel(c.Logging.Level) {
		return ErrInvalidLogLevel
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		Watch: WatchConfig{
			Debounce:                10 * time.Millisecond,
			CircuitBreakerThreshold: 5,
			EventBuffer:             256,
		},
		Output: OutputConfig{
			Format: string(output.FormatText),
			Tag:    string(output.TagDir),
			Color:  string(output.ColorAuto),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Output: "stderr",
			Format: "text",
		},
	}
}
