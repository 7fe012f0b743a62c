package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/KirkDiggler/typed-emitter/internal/emitter"
)

// Config holds all configuration for the application
type Config struct {
	Emitter EmitterConfig
	Redis   RedisConfig
	Log     LogConfig

	// MetricsAddr enables the /metrics listener when set
	MetricsAddr string
}

// EmitterConfig holds event emitter settings
type EmitterConfig struct {
	Wildcard     bool
	Delimiter    string
	MaxListeners int
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// URL is optional; orders are kept in memory without it
	URL string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Emitter: EmitterConfig{
			Wildcard:     getEnvAsBoolOrDefault("EMITTER_WILDCARD", true),
			Delimiter:    getEnvOrDefault("EMITTER_DELIMITER", emitter.DefaultDelimiter),
			MaxListeners: getEnvAsIntOrDefault("EMITTER_MAX_LISTENERS", emitter.DefaultMaxListeners),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "console"),
		},
		MetricsAddr: os.Getenv("METRICS_ADDR"),
	}

	if cfg.Emitter.MaxListeners < 0 {
		return nil, fmt.Errorf("EMITTER_MAX_LISTENERS must not be negative, got %d", cfg.Emitter.MaxListeners)
	}
	if strings.ContainsAny(cfg.Emitter.Delimiter, "*") {
		return nil, fmt.Errorf("EMITTER_DELIMITER cannot contain a wildcard: %q", cfg.Emitter.Delimiter)
	}

	return cfg, nil
}

// EmitterSettings converts the loaded values into an emitter config
func (c *Config) EmitterSettings() emitter.Config {
	return emitter.Config{
		Wildcard:     c.Emitter.Wildcard,
		Delimiter:    c.Emitter.Delimiter,
		MaxListeners: c.Emitter.MaxListeners,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
