package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("BAYESDX_ADDR", "127.0.0.1:9090")
	t.Setenv("BAYESDX_API_KEY", "secret")
	t.Setenv("BAYESDX_CACHE_SIZE", "0")
	t.Setenv("BAYESDX_REQUEST_TIMEOUT", "2s")
	t.Setenv("BAYESDX_LOG_LEVEL", "debug")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("Addr = %q, want 127.0.0.1:9090", cfg.Server.Addr)
	}
	if cfg.Server.APIKey != "secret" {
		t.Errorf("APIKey = %q, want secret", cfg.Server.APIKey)
	}
	if cfg.Cache.Size != 0 {
		t.Errorf("Cache.Size = %d, want 0", cfg.Cache.Size)
	}
	if cfg.Server.RequestTimeout != 2*time.Second {
		t.Errorf("RequestTimeout = %s, want 2s", cfg.Server.RequestTimeout)
	}
	if cfg.Server.ShutdownTimeout != DefaultConfig().Server.ShutdownTimeout {
		t.Errorf("ShutdownTimeout should keep its default, got %s", cfg.Server.ShutdownTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestFromEnv_BadValues(t *testing.T) {
	tests := []struct {
		env, value string
	}{
		{"BAYESDX_CACHE_SIZE", "lots"},
		{"BAYESDX_REQUEST_TIMEOUT", "soon"},
		{"BAYESDX_SHUTDOWN_TIMEOUT", "10"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("%s=%q: expected error", tt.env, tt.value)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"negative cache", func(c *Config) { c.Cache.Size = -1 }},
		{"zero request timeout", func(c *Config) { c.Server.RequestTimeout = 0 }},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }},
		{"unknown level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("BAYESDX_CATALOG=/tmp/tests.yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BAYESDX_CATALOG", "")
	os.Unsetenv("BAYESDX_CATALOG")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("BAYESDX_CATALOG"); got != "/tmp/tests.yaml" {
		t.Errorf("BAYESDX_CATALOG = %q, want /tmp/tests.yaml", got)
	}
}
