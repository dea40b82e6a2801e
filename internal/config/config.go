// Package config loads runtime configuration for the bayesdx server and CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration.
type Config struct {
	Server ServerConfig
	Cache  CacheConfig

	// DBPath is the usage log location. Empty means store.DefaultDBPath().
	DBPath string

	// CatalogPath is an optional YAML test catalog replacing the built-in one.
	CatalogPath string

	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr string

	// APIKey enables bearer/X-API-Key auth on /v1 routes when non-empty.
	APIKey string

	RequestTimeout    time.Duration
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// CacheConfig configures the response cache. Size 0 disables it.
type CacheConfig struct {
	Size int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			RequestTimeout:    10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   15 * time.Second,
		},
		Cache: CacheConfig{
			Size: 1024,
		},
		LogLevel: "info",
	}
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// FromEnv builds a Config from BAYESDX_* environment variables, falling
// back to defaults for unset values.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("BAYESDX_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("BAYESDX_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("BAYESDX_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("BAYESDX_CATALOG"); v != "" {
		cfg.CatalogPath = v
	}
	if v := os.Getenv("BAYESDX_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("BAYESDX_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("BAYESDX_CACHE_SIZE: %w", err)
		}
		cfg.Cache.Size = n
	}

	durations := []struct {
		env string
		dst *time.Duration
	}{
		{"BAYESDX_REQUEST_TIMEOUT", &cfg.Server.RequestTimeout},
		{"BAYESDX_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout},
	}
	for _, d := range durations {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", d.env, err)
		}
		*d.dst = parsed
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server address must not be empty")
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache size must be >= 0, got %d", c.Cache.Size)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.Server.RequestTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.LogLevel)
	}
	return nil
}
