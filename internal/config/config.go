package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/benvon/morning-affirmations/internal/models"
)

// Config holds application configuration
type Config struct {
	DatabaseURL      string
	ServerPort       string
	BaseURL          string
	FrontendURLs     []string
	EnableHSTS       bool
	RedisURL         string
	RabbitMQURL      string
	RabbitMQPrefetch int
	WorkerDebugMode  bool
	ServerDebugMode  bool
	OTELEnabled      bool
	OTELEndpoint     string

	// Content
	ContentDir      string
	ContentWatch    bool
	VideoCategories []models.VideoCategory
	Location        *time.Location

	// Sessions
	RateLimit      string
	LockMaxAge     time.Duration
	PreferencesTTL time.Duration
}

// lookupFunc returns the value of an environment variable or "" when unset
type lookupFunc func(string) string

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(lookup lookupFunc) (*Config, error) {
	cfg := &Config{
		DatabaseURL:      getEnv(lookup, "DATABASE_URL", ""),
		ServerPort:       getEnv(lookup, "SERVER_PORT", "8080"),
		BaseURL:          getEnv(lookup, "BASE_URL", "http://localhost:8080"),
		FrontendURLs:     getEnvList(lookup, "FRONTEND_URL", []string{"http://localhost:3000"}),
		EnableHSTS:       getEnvBool(lookup, "ENABLE_HSTS", false),
		RedisURL:         getEnv(lookup, "REDIS_URL", "redis://localhost:6379/0"),
		RabbitMQURL:      getEnv(lookup, "RABBITMQ_URL", ""),
		RabbitMQPrefetch: getEnvInt(lookup, "RABBITMQ_PREFETCH", 1),
		WorkerDebugMode:  getEnvBool(lookup, "WORKER_DEBUG_MODE", false),
		ServerDebugMode:  getEnvBool(lookup, "SERVER_DEBUG_MODE", false),
		OTELEnabled:      getEnvBool(lookup, "OTEL_ENABLED", false),
		OTELEndpoint:     getEnv(lookup, "OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ContentDir:       getEnv(lookup, "CONTENT_DIR", "data"),
		ContentWatch:     getEnvBool(lookup, "CONTENT_WATCH", true),
		RateLimit:        getEnv(lookup, "RATE_LIMIT", "120-M"),
		LockMaxAge:       getEnvDuration(lookup, "LOCK_MAX_AGE", 7*24*time.Hour),
		PreferencesTTL:   getEnvDuration(lookup, "PREFERENCES_TTL", 30*24*time.Hour),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required for job queueing (selection statistics require RabbitMQ)")
	}

	rawCategories := getEnvList(lookup, "VIDEO_CATEGORIES", nil)
	if len(rawCategories) == 0 {
		cfg.VideoCategories = models.DefaultVideoCategories()
	} else {
		categories, err := models.ParseVideoCategories(rawCategories)
		if err != nil {
			return nil, fmt.Errorf("invalid VIDEO_CATEGORIES: %w", err)
		}
		cfg.VideoCategories = categories
	}

	loc, err := time.LoadLocation(getEnv(lookup, "TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

func getEnv(lookup lookupFunc, key, defaultValue string) string {
	if value := lookup(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(lookup lookupFunc, key string, defaultValue bool) bool {
	if value := lookup(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(lookup lookupFunc, key string, defaultValue int) int {
	if value := lookup(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go duration strings ("36h") or a bare number of days ("7")
func getEnvDuration(lookup lookupFunc, key string, defaultValue time.Duration) time.Duration {
	value := lookup(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if days, err := strconv.Atoi(value); err == nil && days > 0 {
		return time.Duration(days) * 24 * time.Hour
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping empty items
func getEnvList(lookup lookupFunc, key string, defaultValue []string) []string {
	value := lookup(key)
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
