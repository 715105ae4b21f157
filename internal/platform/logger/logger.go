// Package logger builds the process-wide structured logger.
package logger

import (
	"log/slog"
	"os"

	"blockrent/internal/platform/config"
)

// New returns a slog.Logger configured per LogConfig. Format "text" is for
// local development; anything else gets JSON.
func New(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
