// Package config handles application configuration management.
package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	// Base directory for all Ladle data (~/.ladle)
	BaseDir string

	// Server settings for `ladle serve`
	Server ServerConfig

	// Import settings
	Import ImportConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Addr the fiber app listens on (default :8080)
	Addr string
	// SearchRatePerSecond limits search requests per client (default 5)
	SearchRatePerSecond float64
	// SearchRateBurst is the rate limiter burst size (default 10)
	SearchRateBurst int
}

// ImportConfig holds recipe import settings.
type ImportConfig struct {
	// CloneDir is where git recipe repositories are cached
	CloneDir string
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:                ":8080",
		SearchRatePerSecond: 5,
		SearchRateBurst:     10,
	}
}

// DefaultConfig returns the default configuration rooted at baseDir.
func DefaultConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		Server:  DefaultServerConfig(),
		Import: ImportConfig{
			CloneDir: filepath.Join(baseDir, "repositories"),
		},
	}
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	baseDir := os.Getenv("LADLE_HOME")
	if baseDir == "" {
		baseDir = DefaultBaseDir()
	}

	cfg := DefaultConfig(baseDir)

	if addr := os.Getenv("LADLE_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if rps := os.Getenv("LADLE_SEARCH_RATE"); rps != "" {
		if v, err := strconv.ParseFloat(rps, 64); err == nil && v > 0 {
			cfg.Server.SearchRatePerSecond = v
		}
	}

	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureDirectories creates required directories if they don't exist.
func ensureDirectories(cfg *Config) error {
	dirs := []string{
		cfg.BaseDir,
		cfg.Import.CloneDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
