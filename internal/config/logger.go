package config

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the service-wide structured logger. The bank emits JSON
// records so ledger operations can be correlated downstream; source locations
// are attached only at debug and error level where they earn their cost.
func (c *LoggerConfig) NewLogger() *slog.Logger {
	level := parseLogLevel(c.Level)

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug || level == slog.LevelError,
	})

	return slog.New(handler)
}

// parseLogLevel maps the configured level string to a slog.Level,
// defaulting to info for anything unrecognized
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
