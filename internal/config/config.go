// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultLogLevel = "warn"
)

// Config holds application settings. Everything has a working default, so
// running without a config file is fine.
type Config struct {
	// DBPath overrides the location of the SQLite database.
	DBPath string `toml:"db_path"`
	// LogPath overrides the location of the log file. Logs go to a file
	// rather than stderr so they do not tear the TUI.
	LogPath string `toml:"log_path"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Load reads configuration from defaults, then the config file (if any),
// then environment variables, in that priority order.
func Load() (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.LogLevel = DefaultLogLevel
	if dir, err := os.UserConfigDir(); err == nil {
		cfg.DBPath = filepath.Join(dir, "taskdeck", "taskdeck.db")
		cfg.LogPath = filepath.Join(dir, "taskdeck", "taskdeck.log")
	}
}

// findConfigFile looks for a config file next to the database, then in the
// current directory.
func findConfigFile() string {
	var names []string
	if dir, err := os.UserConfigDir(); err == nil {
		names = append(names, filepath.Join(dir, "taskdeck", "config.toml"))
	}
	names = append(names, "taskdeck.toml", ".taskdeck.toml")
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TASKDECK_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TASKDECK_LOG"); v != "" {
		cfg.LogPath = v
	}
	if v := os.Getenv("TASKDECK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
