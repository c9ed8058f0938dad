package config

import (
	"os"
	"path/filepath"
)

// localConfigFile is looked up in the current directory first.
const localConfigFile = "multitail.yaml"

// DefaultConfigPath returns the per-user configuration file path.
//
// Returns: ~/.config/multitail/config.yaml.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}

	return filepath.Join(homeDir, ".config", "multitail", "config.yaml")
}

// SearchPaths returns the configuration file locations in order of
// precedence.
func SearchPaths() []string {
	return []string{
		"./" + localConfigFile,
		DefaultConfigPath(),
	}
}

// FindConfigFile returns the first existing file from SearchPaths, or an
// empty string when there is none.
func FindConfigFile() string {
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
