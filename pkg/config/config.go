// Package config loads server, storage, and retention configuration for the
// simulation API process.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/lattics/lattics/pkg/storage"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port string
}

// RetentionConfig controls how long completed run records and their
// snapshots are kept before the retention service deletes them.
type RetentionConfig struct {
	// RunRetention is how long to keep a completed run before deletion.
	RunRetention time.Duration
	// CleanupInterval is how often the retention loop sweeps for expired runs.
	CleanupInterval time.Duration
}

// DefaultRetentionConfig returns the built-in retention defaults.
func DefaultRetentionConfig() *RetentionConfig {
	return &RetentionConfig{
		RunRetention:    30 * 24 * time.Hour,
		CleanupInterval: 6 * time.Hour,
	}
}

// Config bundles everything the API server needs to start.
type Config struct {
	Server    ServerConfig
	Storage   storage.Config
	Retention *RetentionConfig
}

// Load assembles configuration from environment variables, applying the
// same production-ready defaults as the rest of the stack.
func Load() (*Config, error) {
	storageCfg, err := storage.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	retention := DefaultRetentionConfig()
	if v := os.Getenv("LATTICS_RUN_RETENTION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LATTICS_RUN_RETENTION: %w", err)
		}
		retention.RunRetention = d
	}
	if v := os.Getenv("LATTICS_CLEANUP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LATTICS_CLEANUP_INTERVAL: %w", err)
		}
		retention.CleanupInterval = d
	}

	return &Config{
		Server:    ServerConfig{Port: getEnvOrDefault("LATTICS_PORT", "8080")},
		Storage:   storageCfg,
		Retention: retention,
	}, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
