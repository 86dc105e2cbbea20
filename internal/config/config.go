package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	AWS    AWSConfig
	Logger LoggerConfig
	Worker WorkerConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// AWSConfig holds the destinations for the order store and the queues.
// They are supplied at process start and fixed for the process
// lifetime.
type AWSConfig struct {
	Region             string
	Endpoint           string // optional override, e.g. a local stack
	OrdersTable        string
	OrderQueueURL      string
	DeadLetterQueueURL string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// WorkerConfig holds the fulfillment worker's polling configuration.
type WorkerConfig struct {
	WaitTimeSeconds int
	MaxMessages     int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		AWS: AWSConfig{
			Region:             getEnv("AWS_REGION", "us-east-1"),
			Endpoint:           getEnv("AWS_ENDPOINT_URL", ""),
			OrdersTable:        getEnv("ORDERS_TABLE", ""),
			OrderQueueURL:      getEnv("ORDER_QUEUE_URL", ""),
			DeadLetterQueueURL: getEnv("DLQ_URL", ""),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Worker: WorkerConfig{
			WaitTimeSeconds: getEnvAsInt("WORKER_WAIT_TIME", 20),
			MaxMessages:     getEnvAsInt("WORKER_MAX_MESSAGES", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.AWS.Region == "" {
		return fmt.Errorf("AWS region is required")
	}

	if c.AWS.OrdersTable == "" {
		return fmt.Errorf("orders table is required")
	}

	if c.AWS.OrderQueueURL == "" {
		return fmt.Errorf("order queue URL is required")
	}

	if c.AWS.DeadLetterQueueURL == "" {
		return fmt.Errorf("dead-letter queue URL is required")
	}

	if c.Worker.WaitTimeSeconds < 0 || c.Worker.WaitTimeSeconds > 20 {
		return fmt.Errorf("worker wait time must be between 0 and 20 seconds")
	}

	if c.Worker.MaxMessages < 1 || c.Worker.MaxMessages > 10 {
		return fmt.Errorf("worker max messages must be between 1 and 10")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
