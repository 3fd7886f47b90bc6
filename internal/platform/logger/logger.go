// Package logger provides structured logging functionality for the application
// using Go's standard library log/slog package.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup initializes the application's logging system. It creates a structured
// JSON logger writing to stdout at the configured level, sets it as the
// process default and returns it.
//
// An unrecognized level falls back to info; a warning about the bad value is
// emitted through the new logger itself so it still reaches the log stream.
func Setup(logLevel string) *slog.Logger {
	return SetupWithWriter(logLevel, os.Stdout)
}

// SetupWithWriter is Setup with an explicit output writer. Tests use it to
// capture log output in a buffer.
func SetupWithWriter(logLevel string, out io.Writer) *slog.Logger {
	level, recognized := parseLevel(logLevel)

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	log := slog.New(handler)
	slog.SetDefault(log)

	if !recognized {
		log.Warn("invalid log level configured, using default level",
			slog.String("configured_level", logLevel),
			slog.String("default_level", "info"))
	}

	return log
}

// parseLevel maps a case-insensitive level name to a slog.Level. The second
// return value reports whether the name was recognized.
func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
