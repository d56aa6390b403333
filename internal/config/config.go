package config

import (
	"crypto/rsa"
	"errors"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	Environment       string
	DatabaseURL       string
	RedisAddress      string
	RedisPassword     string
	RabbitMQURL       string
	NotificationQueue string
	AllowedOrigins    []string

	// SessionPublicKey verifies session tokens issued by the identity
	// frontend. Optional: without it, identity comes from request fields
	// and the authorization guard alone.
	SessionPublicKey *rsa.PublicKey
}

func Load() (*Config, error) {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		return nil, errors.New("DB_CONNECTION_STRING environment variable is required")
	}

	cfg := &Config{
		Port:              envOr("PORT", "8080"),
		Environment:       envOr("ENVIRONMENT", "development"),
		DatabaseURL:       dbURL,
		RedisAddress:      envOr("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RabbitMQURL:       os.Getenv("RABBITMQ_URL"),
		NotificationQueue: envOr("NOTIFICATION_QUEUE_NAME", "appointment-notifications"),
		AllowedOrigins:    splitOrigins(envOr("ALLOWED_ORIGINS", "*")),
	}

	if path := os.Getenv("SESSION_PUBLIC_KEY_PATH"); path != "" {
		key, err := loadPublicKey(path)
		if err != nil {
			return nil, err
		}
		cfg.SessionPublicKey = key
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return publicKey, nil
}
