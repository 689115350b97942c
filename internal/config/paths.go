package config

import (
	"os"
	"path/filepath"
)

// Paths contains commonly used file paths.
type Paths struct {
	Database     string // Main SQLite database
	Logs         string // Log directory
	Repositories string // Cloned recipe repositories directory
	Images       string // Stored recipe images directory
}

// GetPaths returns all commonly used paths based on config.
func GetPaths(cfg *Config) Paths {
	return Paths{
		Database:     filepath.Join(cfg.BaseDir, "ladle.db"),
		Logs:         filepath.Join(cfg.BaseDir, "logs"),
		Repositories: cfg.Import.CloneDir,
		Images:       filepath.Join(cfg.BaseDir, "images"),
	}
}

// DefaultBaseDir returns the default base directory (~/.ladle).
func DefaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ladle"
	}
	return filepath.Join(home, ".ladle")
}
