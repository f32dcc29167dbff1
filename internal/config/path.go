// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DefaultDatabasePath returns the standard location of the kontor
// database, honoring XDG_DATA_HOME when set.
func DefaultDatabasePath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "kontor", "kontor.db")
	}
	return ExpandPath("~/.local/share/kontor/kontor.db")
}

// DefaultConfigDir returns the directory searched for config.yaml.
func DefaultConfigDir() string {
	return ExpandPath("~/.config/kontor")
}
