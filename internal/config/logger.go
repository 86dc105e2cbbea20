package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates the process root logger. Every entry carries the
// service name so api and worker logs can be told apart downstream.
func NewLogger(cfg LoggerConfig, service string) zerolog.Logger {
	var level zerolog.Level
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	var out zerolog.Logger
	if cfg.Format == "console" {
		out = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	} else {
		out = zerolog.New(os.Stdout)
	}

	return out.With().Timestamp().Str("service", service).Logger()
}
