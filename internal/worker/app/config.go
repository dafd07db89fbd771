package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	VAPIDPublicKey  string // Required: public half of the web-push key pair
	VAPIDPrivateKey string // Required: private half, worker-only
	Subscriber      string // Contact URI sent to push services (default: mailto:ops@localhost)

	DatabaseFile string // Path to SQLite database file, shared with the notify service (default: ./notify.db)

	PollInterval time.Duration // How often to poll the outbox (default: 2s)
	BatchSize    int           // Envelopes claimed per batch (default: 50)
	PushTTL      time.Duration // How long push services hold undelivered messages (default: 1h)

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
}

var ErrMissingVAPIDKeys = errors.New("VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY are required")

func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		Subscriber:      getEnvOrDefault("PUSH_SUBSCRIBER", "mailto:ops@localhost"),
		DatabaseFile:    getEnvOrDefault("NOTIFY_DATABASE_FILE", "notify.db"),
		PollInterval:    getEnvDurationOrDefault("POLL_INTERVAL", 2*time.Second),
		BatchSize:       getEnvIntOrDefault("BATCH_SIZE", 50),
		PushTTL:         getEnvDurationOrDefault("PUSH_TTL", time.Hour),
		Env:             getEnvOrDefault("ENV", "dev"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       getEnvOrDefault("LOG_FORMAT", "json"),
	}

	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		return Config{}, ErrMissingVAPIDKeys
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
