package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lvanness7690/homebridge-dyson-heurist/internal/infrastructure/config"
)

// serviceName is attached to every log entry.
const serviceName = "dysonvac"

// redacted replaces the value of secret attributes.
const redacted = "[REDACTED]"

// secretKeys are attribute keys whose values never reach the output,
// whatever the caller passes. Keys are compared case-insensitively.
var secretKeys = map[string]bool{
	"password":         true,
	"credentials":      true,
	"localcredentials": true,
	"token":            true,
}

// Logger wraps slog.Logger with the dysonvac service defaults.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Logger struct {
	*slog.Logger
}

// New creates a Logger from the logging section of the config.
//
// Output goes to stdout unless cfg.Output is "stderr". Format is JSON
// unless cfg.Format is "text". Every entry carries service and version.
func New(cfg config.LoggingConfig, version string) *Logger {
	var output io.Writer = os.Stdout
	if strings.EqualFold(cfg.Output, "stderr") {
		output = os.Stderr
	}

	return &Logger{
		Logger: slog.New(newHandler(output, cfg.Format, parseLevel(cfg.Level), version)),
	}
}

// newHandler builds the slog handler behind New.
func newHandler(w io.Writer, format string, level slog.Level, version string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactSecrets,
	}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return handler.WithAttrs([]slog.Attr{
		slog.String("service", serviceName),
		slog.String("version", version),
	})
}

// redactSecrets masks credential-bearing attributes.
func redactSecrets(_ []string, a slog.Attr) slog.Attr {
	if secretKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	return a
}

// parseLevel converts a config level name to a slog.Level.
// Unrecognised names mean info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// With returns a Logger that adds args to every entry.
//
//	platformLogger := logger.With("component", "platform")
//	platformLogger.Info("ready") // Includes component=platform
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// Default is the logger used before the config is loaded: JSON to stdout
// at info level.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}
