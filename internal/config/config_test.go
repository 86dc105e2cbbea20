package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseEnv sets the minimum environment a valid configuration needs and
// clears everything else.
func baseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_HOST", "SERVER_PORT",
		"AWS_REGION", "AWS_ENDPOINT_URL",
		"LOG_LEVEL", "LOG_FORMAT",
		"WORKER_WAIT_TIME", "WORKER_MAX_MESSAGES",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("ORDERS_TABLE", "orders")
	t.Setenv("ORDER_QUEUE_URL", "https://sqs.test/orders")
	t.Setenv("DLQ_URL", "https://sqs.test/dlq")
}

func TestLoad_Defaults(t *testing.T) {
	baseEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "us-east-1", cfg.AWS.Region)
	assert.Empty(t, cfg.AWS.Endpoint)
	assert.Equal(t, "orders", cfg.AWS.OrdersTable)
	assert.Equal(t, "https://sqs.test/orders", cfg.AWS.OrderQueueURL)
	assert.Equal(t, "https://sqs.test/dlq", cfg.AWS.DeadLetterQueueURL)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, 20, cfg.Worker.WaitTimeSeconds)
	assert.Equal(t, 10, cfg.Worker.MaxMessages)
}

func TestLoad_Overrides(t *testing.T) {
	baseEnv(t)
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("AWS_ENDPOINT_URL", "http://localhost:4566")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("WORKER_WAIT_TIME", "5")
	t.Setenv("WORKER_MAX_MESSAGES", "3")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Address())
	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, "http://localhost:4566", cfg.AWS.Endpoint)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, 5, cfg.Worker.WaitTimeSeconds)
	assert.Equal(t, 3, cfg.Worker.MaxMessages)
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	baseEnv(t)
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "Missing orders table",
			env:     map[string]string{"ORDERS_TABLE": ""},
			wantErr: "orders table is required",
		},
		{
			name:    "Missing order queue URL",
			env:     map[string]string{"ORDER_QUEUE_URL": ""},
			wantErr: "order queue URL is required",
		},
		{
			name:    "Missing dead-letter queue URL",
			env:     map[string]string{"DLQ_URL": ""},
			wantErr: "dead-letter queue URL is required",
		},
		{
			name:    "Invalid port",
			env:     map[string]string{"SERVER_PORT": "70000"},
			wantErr: "invalid server port",
		},
		{
			name:    "Worker wait time out of range",
			env:     map[string]string{"WORKER_WAIT_TIME": "30"},
			wantErr: "worker wait time",
		},
		{
			name:    "Worker max messages out of range",
			env:     map[string]string{"WORKER_MAX_MESSAGES": "50"},
			wantErr: "worker max messages",
		},
		{
			name:    "Invalid log level",
			env:     map[string]string{"LOG_LEVEL": "verbose"},
			wantErr: "invalid log level",
		},
		{
			name:    "Invalid log format",
			env:     map[string]string{"LOG_FORMAT": "xml"},
			wantErr: "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			cfg, err := Load()

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
