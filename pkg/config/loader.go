package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvRoots     = "MULTITAIL_ROOTS"
	EnvRecursive = "MULTITAIL_RECURSIVE"
	EnvDebounce  = "MULTITAIL_DEBOUNCE"
	EnvLogLevel  = "MULTITAIL_LOG_LEVEL"
)

// Loader provides methods for loading configuration from various sources.
type Loader interface {
	// Load loads configuration with the following precedence:
	// 1. Environment variables
	// 2. Configuration file
	// 3. Default values
	//
	// Returns the merged configuration or an error if validation fails.
	Load() (*Config, error)

	// LoadFromFile loads configuration from a specific file.
	LoadFromFile(path string) (*Config, error)

	// Source returns the file Load reads, or an empty string when only
	// defaults and the environment apply.
	Source() string
}

// loader implements the Loader interface.
type loader struct {
	configPath string
}

// NewLoader creates a new configuration loader.
//
// If configPath is empty, the first existing file from SearchPaths is used.
func NewLoader(configPath string) Loader {
	return &loader{
		configPath: configPath,
	}
}

// Load implements Loader.Load.
func (l *loader) Load() (*Config, error) {
	cfg := Default()

	if configPath := l.Source(); configPath != "" {
		fileCfg, err := l.LoadFromFile(configPath)
		if err != nil {
			// An explicit file must load; a discovered one may be unreadable.
			if l.configPath != "" {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
		} else {
			cfg = l.mergeConfigs(cfg, fileCfg)
		}
	}

	cfg, err := l.applyEnvVars(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Source implements Loader.Source.
func (l *loader) Source() string {
	if l.configPath != "" {
		return l.configPath
	}
	return FindConfigFile()
}

// LoadFromFile implements Loader.LoadFromFile.
func (l *loader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return &cfg, nil
}

// mergeConfigs merges file configuration into default configuration.
//
// File values override defaults, but only if they are non-zero.
func (l *loader) mergeConfigs(base, override *Config) *Config {
	result := *base

	if len(override.Roots) > 0 {
		result.Roots = override.Roots
	}
	// Recursive is a bool, so we always take the override value
	result.Recursive = override.Recursive

	// Merge watch config
	if override.Watch.Debounce > 0 {
		result.Watch.Debounce = override.Watch.Debounce
	}
	if override.Watch.CircuitBreakerThreshold > 0 {
		result.Watch.CircuitBreakerThreshold = override.Watch.CircuitBreakerThreshold
	}
	if override.Watch.EventBuffer > 0 {
		result.Watch.EventBuffer = override.Watch.EventBuffer
	}
	if override.Watch.StatsInterval > 0 {
		result.Watch.StatsInterval = override.Watch.StatsInterval
	}

	// Merge filter config
	if len(override.Filter.Include) > 0 {
		result.Filter.Include = override.Filter.Include
	}
	if len(override.Filter.Exclude) > 0 {
		result.Filter.Exclude = override.Filter.Exclude
	}

	// Merge output config
	if override.Output.Format != "" {
		result.Output.Format = override.Output.Format
	}
	if override.Output.Tag != "" {
		result.Output.Tag = override.Output.Tag
	}
	if override.Output.Color != "" {
		result.Output.Color = override.Output.Color
	}

	// Merge logging config
	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.Output != "" {
		result.Logging.Output = override.Logging.Output
	}
	if override.Logging.Format != "" {
		result.Logging.Format = override.Logging.Format
	}

	return &result
}

// applyEnvVars applies environment variable overrides to the configuration.
//
// Supported environment variables:
//   - MULTITAIL_ROOTS: Comma-separated list of directories
//   - MULTITAIL_RECURSIVE: Boolean (true, false, 1, 0)
//   - MULTITAIL_DEBOUNCE: Duration (e.g. 10ms)
//   - MULTITAIL_LOG_LEVEL: Log level
func (l *loader) applyEnvVars(cfg *Config) (*Config, error) {
	result := *cfg

	if envRoots := os.Getenv(EnvRoots); envRoots != "" {
		roots := strings.Split(envRoots, ",")
		result.Roots = make([]string, 0, len(roots))
		for _, root := range roots {
			if root = strings.TrimSpace(root); root != "" {
				result.Roots = append(result.Roots, root)
			}
		}
	}

	if envRecursive := os.Getenv(EnvRecursive); envRecursive != "" {
		recursive, err := strconv.ParseBool(envRecursive)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvRecursive, envRecursive)
		}
		result.Recursive = recursive
	}

	if envDebounce := os.Getenv(EnvDebounce); envDebounce != "" {
		debounce, err := time.ParseDuration(envDebounce)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvDebounce, envDebounce)
		}
		result.Watch.Debounce = debounce
	}

	if logLevel := os.Getenv(EnvLogLevel); logLevel != "" {
		result.Logging.Level = strings.ToLower(logLevel)
	}

	return &result, nil
}

// Load is a convenience function that creates a loader and loads configuration.
//
// Equivalent to:
//
//	loader := NewLoader("")
//	return loader.Load()
func Load() (*Config, error) {
	return NewLoader("").Load()
}

// LoadFromFile is a convenience function that loads configuration from a file.
//
// Equivalent to:
//
//	loader := NewLoader(path)
//	return loader.Load()
func LoadFromFile(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// Save writes the configuration to a YAML file.
//
// Creates parent directories if they don't exist.
// File is created with 0600 permissions (read/write for owner only).
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
