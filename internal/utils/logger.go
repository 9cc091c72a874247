package utils

import (
	"log/slog"
	"os"
)

// InitLogger installs a text slog handler on stdout as the default logger.
// Unknown levels fall back to info.
func InitLogger(level string) {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	handler := slog.NewTextHandler(os.Stdout, opts)
	slog.SetDefault(slog.New(handler))
}

// ParseLevel maps a config level name to a slog level
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
