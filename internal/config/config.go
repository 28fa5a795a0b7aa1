package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"salesdash/internal/feed"
)

type Config struct {
	// HTTP Server
	Port               string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration

	// Backend selection
	DataBackend  string
	SQLiteDBPath string

	// Reporting
	ReportYear     int
	DefaultPerPage int
	MaxPerPage     int

	// Seeding
	SeedFeedURL   string
	SeedTimeout   time.Duration
	SeedRateLimit int
	SeedOnStartup bool

	// AMQP, optional. Empty AMQPURL means seeds run inline.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Logging
	LogLevel  string
	LogFormat string
}

var validBackends = []string{"memory", "sqlite"}

func Load() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "5000"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/salesdash.db"),

		ReportYear:     getEnvInt("REPORT_YEAR", 2021),
		DefaultPerPage: getEnvInt("DEFAULT_PER_PAGE", 10),
		MaxPerPage:     getEnvInt("MAX_PER_PAGE", 100),

		SeedFeedURL:   getEnv("SEED_FEED_URL", feed.DefaultURL),
		SeedTimeout:   getEnvDuration("SEED_TIMEOUT", 30*time.Second),
		SeedRateLimit: getEnvInt("SEED_RATE_LIMIT", 5),
		SeedOnStartup: getEnvBool("SEED_ON_STARTUP", false),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "salesdash"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "seed_requests"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	if c.DataBackend == "sqlite" && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.ReportYear < 1970 || c.ReportYear > 9999 {
		errors = append(errors, fmt.Sprintf("invalid report year %d: must be between 1970 and 9999", c.ReportYear))
	}
	if c.DefaultPerPage < 1 {
		errors = append(errors, fmt.Sprintf("invalid default per page %d: must be at least 1", c.DefaultPerPage))
	}
	if c.MaxPerPage < c.DefaultPerPage {
		errors = append(errors, fmt.Sprintf("invalid max per page %d: must be at least the default per page %d", c.MaxPerPage, c.DefaultPerPage))
	}

	if u, err := url.Parse(c.SeedFeedURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid seed feed URL '%s': must be an absolute http(s) URL", c.SeedFeedURL))
	}
	if c.SeedTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid seed timeout %v: must be at least 1 second", c.SeedTimeout))
	}
	if c.SeedRateLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid seed rate limit %d: must be at least 1 per minute", c.SeedRateLimit))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
		if c.DataBackend == "memory" {
			errors = append(errors, "memory backend cannot be used with AMQP: the worker would seed its own private store")
		}
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
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

// getEnvList splits a comma-separated value, dropping empty items.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
