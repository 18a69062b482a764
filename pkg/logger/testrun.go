package logger

import (
	"io"
	"log/slog"
)

// NewTestHandler discards output but honours level, so Enabled checks behave as in production.
func NewTestHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
}
