package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Backend endpoints. The deployed backend splits the password-reset
	// flow onto its own host, so the two are configured separately.
	CoreBaseURL string
	AuthBaseURL string

	// HTTP client
	HTTPTimeout time.Duration

	// LegacyTokenInQuery additionally passes the access token as a
	// ?token= query parameter next to the bearer header. The deployed
	// backend still reads the query string on several routes.
	LegacyTokenInQuery bool

	// Session store
	SessionDBPath string

	// Display
	DefaultCurrency string

	// Recommendations cache
	RecommendationTTL  time.Duration
	RecommendationSize int
}

func Load() *Config {
	cfg := &Config{
		CoreBaseURL: getEnv("SMARTSPEND_API_URL", "http://localhost:3000"),
		AuthBaseURL: getEnv("SMARTSPEND_AUTH_URL", "http://localhost:3005"),

		HTTPTimeout:        getEnvDuration("SMARTSPEND_HTTP_TIMEOUT", 15*time.Second),
		LegacyTokenInQuery: getEnvBool("SMARTSPEND_LEGACY_QUERY_TOKEN", true),

		SessionDBPath: getEnv("SMARTSPEND_SESSION_DB", "./data/smartspend.db"),

		DefaultCurrency: getEnv("SMARTSPEND_CURRENCY", "USD"),

		RecommendationTTL:  getEnvDuration("SMARTSPEND_RECOMMENDATION_TTL", time.Hour),
		RecommendationSize: getEnvInt("SMARTSPEND_RECOMMENDATION_CACHE_SIZE", 16),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	for name, raw := range map[string]string{
		"API base URL":  c.CoreBaseURL,
		"auth base URL": c.AuthBaseURL,
	} {
		parsed, err := url.Parse(raw)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid %s '%s': %v", name, raw, err))
			continue
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid %s scheme '%s': must be 'http' or 'https'", name, parsed.Scheme))
		}
		if parsed.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid %s '%s': missing host", name, raw))
		}
	}

	if c.SessionDBPath == "" {
		errors = append(errors, "session database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SessionDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create session database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.HTTPTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at least 1 second", c.HTTPTimeout))
	} else if c.HTTPTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at most 5 minutes", c.HTTPTimeout))
	}

	if len(c.DefaultCurrency) != 3 {
		errors = append(errors, fmt.Sprintf("invalid currency code '%s': must be a 3-letter ISO code", c.DefaultCurrency))
	}

	if c.RecommendationTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid recommendation TTL %v: must be at least 1 minute", c.RecommendationTTL))
	}
	if c.RecommendationSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid recommendation cache size %d: must be at least 1", c.RecommendationSize))
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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
