package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	DBPath string

	// Logging
	LogLevel string

	// Category path cache
	PathCacheSize int
	PathCacheTTL  time.Duration
}

func Load() *Config {
	return &Config{
		DBPath:        getEnv("TRACKIT_DB_PATH", defaultDBPath()),
		LogLevel:      getEnv("TRACKIT_LOG_LEVEL", "warn"),
		PathCacheSize: getEnvInt("TRACKIT_PATH_CACHE_SIZE", 512),
		PathCacheTTL:  getEnvDuration("TRACKIT_PATH_CACHE_TTL", 5*time.Minute),
	}
}

func defaultDBPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".trackit", "trackit.db")
	}
	return "./data/trackit.db"
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	} else {
		dir := filepath.Dir(c.DBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf(
			"invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.PathCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid path cache size %d: must be at least 1", c.PathCacheSize))
	}
	if c.PathCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid path cache TTL %v: must be at least 1 second", c.PathCacheTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
