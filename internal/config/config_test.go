package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		CoreBaseURL:        "http://localhost:3000",
		AuthBaseURL:        "http://localhost:3005",
		HTTPTimeout:        15 * time.Second,
		SessionDBPath:      "./test.db",
		DefaultCurrency:    "USD",
		RecommendationTTL:  time.Hour,
		RecommendationSize: 16,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid defaults",
			mutate: func(*Config) {},
		},
		{
			name:        "bad API URL scheme",
			mutate:      func(c *Config) { c.CoreBaseURL = "ftp://host" },
			wantErr:     true,
			errorString: "must be 'http' or 'https'",
		},
		{
			name:        "API URL without host",
			mutate:      func(c *Config) { c.CoreBaseURL = "http://" },
			wantErr:     true,
			errorString: "missing host",
		},
		{
			name:        "empty session db path",
			mutate:      func(c *Config) { c.SessionDBPath = "" },
			wantErr:     true,
			errorString: "session database path cannot be empty",
		},
		{
			name:        "timeout too small",
			mutate:      func(c *Config) { c.HTTPTimeout = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "must be at least 1 second",
		},
		{
			name:        "timeout too large",
			mutate:      func(c *Config) { c.HTTPTimeout = time.Hour },
			wantErr:     true,
			errorString: "must be at most 5 minutes",
		},
		{
			name:        "bad currency code",
			mutate:      func(c *Config) { c.DefaultCurrency = "DOLLARS" },
			wantErr:     true,
			errorString: "must be a 3-letter ISO code",
		},
		{
			name:        "recommendation TTL too small",
			mutate:      func(c *Config) { c.RecommendationTTL = time.Second },
			wantErr:     true,
			errorString: "must be at least 1 minute",
		},
		{
			name:        "recommendation cache size zero",
			mutate:      func(c *Config) { c.RecommendationSize = 0 },
			wantErr:     true,
			errorString: "must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errorString) {
				t.Fatalf("error %q does not contain %q", err.Error(), tt.errorString)
			}
		})
	}
}

func TestConfig_Validate_CreatesSessionDir(t *testing.T) {
	dir := t.TempDir()
	cfg := validConfig()
	cfg.SessionDBPath = filepath.Join(dir, "nested", "session.db")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "nested")); err != nil {
		t.Fatalf("expected session directory to be created: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SMARTSPEND_API_URL", "SMARTSPEND_AUTH_URL", "SMARTSPEND_HTTP_TIMEOUT",
		"SMARTSPEND_LEGACY_QUERY_TOKEN", "SMARTSPEND_SESSION_DB", "SMARTSPEND_CURRENCY",
	} {
		os.Unsetenv(key)
	}

	cfg := Load()
	if cfg.CoreBaseURL != "http://localhost:3000" {
		t.Fatalf("unexpected API URL default: %s", cfg.CoreBaseURL)
	}
	if cfg.AuthBaseURL != "http://localhost:3005" {
		t.Fatalf("unexpected auth URL default: %s", cfg.AuthBaseURL)
	}
	if !cfg.LegacyTokenInQuery {
		t.Fatal("legacy query token should default to on")
	}
	if cfg.DefaultCurrency != "USD" {
		t.Fatalf("unexpected currency default: %s", cfg.DefaultCurrency)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SMARTSPEND_API_URL", "https://api.example.com")
	t.Setenv("SMARTSPEND_HTTP_TIMEOUT", "30s")
	t.Setenv("SMARTSPEND_LEGACY_QUERY_TOKEN", "false")

	cfg := Load()
	if cfg.CoreBaseURL != "https://api.example.com" {
		t.Fatalf("env override not applied: %s", cfg.CoreBaseURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("timeout override not applied: %v", cfg.HTTPTimeout)
	}
	if cfg.LegacyTokenInQuery {
		t.Fatal("legacy query token override not applied")
	}
}
