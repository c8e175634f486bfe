package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const appName = "cannon"

// NewJSONLogger builds the process-wide logger for the api and worker
// services. Every record carries the app and service attributes so both
// processes can be told apart in one log stream.
func NewJSONLogger(service, level string) *slog.Logger {
	return newLogger(os.Stdout, service, level)
}

func newLogger(w io.Writer, service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler).With("app", appName, "service", service)
}

// parseLevel maps the LOG_LEVEL setting onto slog levels; anything
// unrecognized falls back to info.
func parseLevel(level string) slog.Level {
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
