package logger

import (
	"log/slog"
	"strings"
)

// New builds a logger at the named level. handler is the output format, e.g.
// NewCloudRunHandler in production or NewTestHandler in tests.
func New(level string, handler func(level slog.Level) slog.Handler) *slog.Logger {
	return slog.New(handler(ParseLevel(level)))
}

// ParseLevel maps LOGLEVEL values to slog levels. Unknown or empty values mean info.
func ParseLevel(level string) slog.Level {
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
