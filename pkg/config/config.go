// Package config loads Voxplan configuration from environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	UserID   string

	// Storage
	DatabaseURL string
	SQLitePath  string

	// Redis
	RedisURL string

	// RabbitMQ
	RabbitMQURL string

	// Remote task API
	APIBaseURL string

	// Order writer
	OrderDebounceWindow   time.Duration
	OrderMaxRetries       int
	OrderRetryBackoffBase time.Duration
	OrderRetryBackoffMax  time.Duration

	// Events
	EventsEnabled bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("VOXPLAN_ENV", "development"),
		LogLevel: getEnv("VOXPLAN_LOG_LEVEL", "info"),
		UserID:   getEnv("VOXPLAN_USER_ID", "00000000-0000-0000-0000-000000000001"),

		DatabaseURL: getEnv("VOXPLAN_DATABASE_URL", ""),
		SQLitePath:  getEnv("VOXPLAN_SQLITE_PATH", defaultSQLitePath()),

		RedisURL:    getEnv("VOXPLAN_REDIS_URL", ""),
		RabbitMQURL: getEnv("VOXPLAN_RABBITMQ_URL", ""),
		APIBaseURL:  getEnv("VOXPLAN_API_BASE_URL", ""),

		OrderDebounceWindow:   getDurationEnv("VOXPLAN_ORDER_DEBOUNCE_WINDOW", 500*time.Millisecond),
		OrderMaxRetries:       getIntEnv("VOXPLAN_ORDER_MAX_RETRIES", 2),
		OrderRetryBackoffBase: getDurationEnv("VOXPLAN_ORDER_RETRY_BACKOFF_BASE", 250*time.Millisecond),
		OrderRetryBackoffMax:  getDurationEnv("VOXPLAN_ORDER_RETRY_BACKOFF_MAX", 5*time.Second),

		EventsEnabled: getBoolEnv("VOXPLAN_EVENTS_ENABLED", false),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".voxplan", "voxplan.db")
	}
	return filepath.Join(home, ".voxplan", "voxplan.db")
}
