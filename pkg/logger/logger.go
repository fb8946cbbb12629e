package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

const (
	// FormatJSON writes one JSON object per record.
	FormatJSON = "json"

	// FormatText writes logfmt style key=value records.
	FormatText = "text"
)

// NewStructuredLogger creates a structured logger writing to stderr.
// Module name and version are included in the logger's context.
// AddSource is enabled for debug level logging only.
// Parameters:
//   - module: The name of the application using the logger.
//   - version: The version of the application (e.g., "v1.0.0").
//   - level: The log level as a string (e.g., "debug", "info", "warn", "error").
//   - format: FormatJSON or FormatText; anything else falls back to JSON.
func NewStructuredLogger(module, version, level, format string) *slog.Logger {
	return NewStructuredLoggerWithWriter(os.Stderr, module, version, level, format)
}

// NewStructuredLoggerWithWriter is NewStructuredLogger writing to w.
func NewStructuredLoggerWithWriter(w io.Writer, module, version, level, format string) *slog.Logger {
	lev := ParseLogLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lev,
		AddSource: lev <= slog.LevelDebug,
	}

	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), FormatText) {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(h).With("module", module, "version", version)
}

// NewLogLogger creates a standard library log.Logger backed by the default
// slog handler, for APIs such as http.Server.ErrorLog that still take one.
func NewLogLogger(level slog.Level) *log.Logger {
	return slog.NewLogLogger(slog.Default().Handler(), level)
}

// SetDefaultLoggerWithLevel sets the default logger with the given level and format.
func SetDefaultLoggerWithLevel(module, version, level, format string) {
	slog.SetDefault(NewStructuredLogger(module, version, level, format))
}

// ParseLogLevel converts a string representation of a log level into a slog.Level.
// Unrecognized strings map to slog.LevelInfo.
func ParseLogLevel(level string) slog.Level {
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
