package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TokenSecret    string // Required: HMAC secret shared with the issuer
	VAPIDPublicKey string // Required: public half of the web-push key pair, served to browsers

	DatabaseFile string // Path to SQLite database file, shared with the worker (default: ./notify.db)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8081)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

var (
	ErrMissingTokenSecret = errors.New("TOKEN_SECRET is required")
	ErrMissingVAPIDKey    = errors.New("VAPID_PUBLIC_KEY is required")
)

func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		TokenSecret:         os.Getenv("TOKEN_SECRET"),
		VAPIDPublicKey:      os.Getenv("VAPID_PUBLIC_KEY"),
		DatabaseFile:        getEnvOrDefault("NOTIFY_DATABASE_FILE", "notify.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8081),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.TokenSecret == "" {
		return Config{}, ErrMissingTokenSecret
	}
	if cfg.VAPIDPublicKey == "" {
		return Config{}, ErrMissingVAPIDKey
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
