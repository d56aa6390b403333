package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// RelayConfig holds configuration for the outbox relay service. Minimal
// on purpose: only what the relay needs.
type RelayConfig struct {
	DatabaseURL       string
	RabbitMQURL       string
	NotificationQueue string
	HealthPort        string
}

func LoadRelayConfig() (*RelayConfig, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		return nil, errors.New("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		return nil, errors.New("RABBITMQ_URL environment variable is required")
	}

	return &RelayConfig{
		DatabaseURL:       dbURL,
		RabbitMQURL:       rabbitURL,
		NotificationQueue: envOr("NOTIFICATION_QUEUE_NAME", "appointment-notifications"),
		HealthPort:        envOr("RELAY_HEALTH_PORT", "8090"),
	}, nil
}
