package logger

import (
	"os"
	"strings"

	"github.com/netcode-labs/auth-service/internal/config"
	"github.com/rs/zerolog"
)

// New builds the root logger. Dev stages get a console writer, everything
// else emits JSON to stdout.
func New(cfg config.AppConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}

	var logger zerolog.Logger
	if strings.EqualFold(cfg.Stage, "dev") || strings.EqualFold(cfg.Stage, "local") {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return logger.Level(level).With().
		Timestamp().
		Str("service", cfg.Name).
		Logger()
}
