// Package logging configures structured logging for log/slog.
//
// Text output uses colored tint handlers; JSON output uses slog's JSON handler
// for log shippers.
//
// Usage:
//
//	logger := logging.New(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
//
// Levels: debug, info, warn, error (default: info). Formats: text, json.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// New builds a logger from config values and installs it as the default.
// Unknown formats fall back to colored text.
func New(level, format string) *slog.Logger {
	logger := slog.New(newHandler(os.Stderr, ParseLevel(level), format))
	slog.SetDefault(logger)
	return logger
}

func newHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})
}

// ParseLevel maps a level name to a slog.Level, defaulting to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
