// Package config provides configuration management for the messageboard
// standalone server. Settings come from an optional yaml file with
// environment variable overrides, so the binary works both with a config
// file on disk and in 12-factor deployments.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the working directory
// when no explicit path is given.
const DefaultFileName = "messageboard.yaml"

// Config holds all configuration for the messageboard server.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Board   BoardConfig   `yaml:"board"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig selects and configures the persistence backend.
//
// Driver values:
//   - "file": single JSON document at Path
//   - "sqlite3": SQLite database file at Path
//   - "mysql" / "postgres": SQL database reached via DSN
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

// BoardConfig holds engine and notification settings.
type BoardConfig struct {
	TickMillis       int    `yaml:"tickMillis"`       // 0 = derive from rotation duration
	LogNotifications bool   `yaml:"logNotifications"` // mirror hub events into the log
	LogLevel         string `yaml:"logLevel"`
}

// Load reads the yaml file at path (skipped when absent), then applies
// environment variable overrides, then validates.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Driver: "file",
			Path:   "messageboard.conf",
		},
		Board: BoardConfig{
			TickMillis:       0,
			LogNotifications: true,
			LogLevel:         "info",
		},
	}

	if path == "" {
		path = DefaultFileName
	}
	if buf, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("in config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("MESSAGEBOARD_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("MESSAGEBOARD_PORT", cfg.Server.Port)
	cfg.Storage.Driver = getEnv("MESSAGEBOARD_STORAGE_DRIVER", cfg.Storage.Driver)
	cfg.Storage.Path = getEnv("MESSAGEBOARD_STORAGE_PATH", cfg.Storage.Path)
	cfg.Storage.DSN = getEnv("MESSAGEBOARD_STORAGE_DSN", cfg.Storage.DSN)
	cfg.Board.TickMillis = getEnvInt("MESSAGEBOARD_TICK_MS", cfg.Board.TickMillis)
	cfg.Board.LogNotifications = getEnvBool("MESSAGEBOARD_LOG_NOTIFICATIONS", cfg.Board.LogNotifications)
	cfg.Board.LogLevel = getEnv("MESSAGEBOARD_LOG_LEVEL", cfg.Board.LogLevel)
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Storage.Driver) {
	case "file", "sqlite3":
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("storage.path is required for driver %q", c.Storage.Driver)
		}
	case "mysql", "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("storage.dsn is required for driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Storage.Driver)
	}
	if c.Board.TickMillis < 0 {
		return fmt.Errorf("board.tickMillis must be >= 0")
	}
	return nil
}

// getEnv retrieves an environment variable or returns the default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as integer or returns the
// default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool retrieves an environment variable as boolean or returns the
// default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
