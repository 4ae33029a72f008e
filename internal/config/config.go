// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every runtime setting of the server.
type Config struct {
	// HTTP server
	Port           string
	RequestTimeout time.Duration

	// Database
	DBDriver     string // sqlite or postgres
	SQLiteDBPath string
	DatabaseURL  string

	// Sessions
	JWTSecret  string
	SessionTTL time.Duration

	// Dashboard tokens
	TokenTTL       time.Duration // zero: tokens never expire
	TokenCacheSize int
	TokenCacheTTL  time.Duration

	// Mail requests (AMQP). Empty URL logs mail instead of sending it.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Ledger events (Kafka). No brokers disables publishing.
	KafkaBrokers     []string
	KafkaTopicPrefix string

	// Currency code used in mail summaries
	Currency string
}

// Load reads the configuration from environment variables, applying defaults.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),

		DBDriver:     strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/payledger.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		SessionTTL: getEnvDuration("SESSION_TTL", 24*time.Hour),

		TokenTTL:       getEnvDuration("TOKEN_TTL", 0),
		TokenCacheSize: getEnvInt("TOKEN_CACHE_SIZE", 1024),
		TokenCacheTTL:  getEnvDuration("TOKEN_CACHE_TTL", time.Minute),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "payledger"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "mail_summaries"),

		KafkaBrokers:     splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", "payledger."),

		Currency: getEnv("CURRENCY", "LKR"),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("invalid request timeout %v: must be positive", c.RequestTimeout))
	}

	switch c.DBDriver {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite driver")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required when using postgres driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid database driver '%s': must be one of [sqlite postgres]", c.DBDriver))
	}

	if len(c.JWTSecret) < 32 {
		errs = append(errs, "JWT_SECRET must be at least 32 characters")
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Sprintf("invalid session TTL %v: must be positive", c.SessionTTL))
	}

	if c.TokenTTL < 0 {
		errs = append(errs, fmt.Sprintf("invalid token TTL %v: must not be negative", c.TokenTTL))
	}
	if c.TokenCacheSize < 1 {
		errs = append(errs, fmt.Sprintf("invalid token cache size %d: must be at least 1", c.TokenCacheSize))
	}
	if c.TokenCacheTTL <= 0 {
		errs = append(errs, fmt.Sprintf("invalid token cache TTL %v: must be positive", c.TokenCacheTTL))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.Currency == "" {
		errs = append(errs, "currency cannot be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
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

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
