package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Config holds all configuration for the contacts service
type Config struct {
	// Server settings
	Port            int
	ShutdownTimeout time.Duration

	// Storage settings
	StoreDriver  string // "memory" or "sqlite"
	DatabasePath string
	SeedFile     string

	// JSON API settings (API disabled when empty)
	APISecret string

	// Avatar lookup settings
	AvatarLookup bool
	GitHubToken  string
	GitHubAPIURL string // Optional: GitHub Enterprise endpoint

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnvInt("PORT", 3000),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", "memory")),
		DatabasePath:    getEnv("DATABASE_PATH", "contacts.db"),
		SeedFile:        os.Getenv("SEED_FILE"),
		APISecret:       os.Getenv("API_SECRET"),
		AvatarLookup:    getEnvBool("AVATAR_LOOKUP", true),
		GitHubToken:     os.Getenv("GITHUB_TOKEN"),
		GitHubAPIURL:    os.Getenv("GITHUB_API_URL"),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// APIEnabled reports whether the JSON API should be mounted
func (c *Config) APIEnabled() bool {
	return c.APISecret != ""
}

// Level returns the parsed zap log level
func (c *Config) Level() zapcore.Level {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// validate checks that configuration values are usable
func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}

	switch c.StoreDriver {
	case "memory":
	case "sqlite":
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required for sqlite store")
		}
	default:
		return fmt.Errorf("invalid store driver: %s (must be 'memory' or 'sqlite')", c.StoreDriver)
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

// getEnv gets environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets environment variable as int with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
