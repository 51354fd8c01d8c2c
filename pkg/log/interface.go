// Package log provides a structured logging interface for arcgo operations.
//
// The package defines a minimal, slog-compatible logging interface with a
// zerolog-backed default implementation. Structured attribute keys for the
// face-verification domain (operation types, data shapes, fold metrics) live
// in attributes.go, and a capture-everything TestLogger for tests lives in
// testing.go.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.ComponentKey, "verification",
//	)
//	logger.Info("Evaluation finished",
//	    log.OperationKey, "evaluate",
//	    log.PairsKey, 6000,
//	    log.AccuracyKey, 0.9942,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// The interface is implementation-agnostic: the default backend is zerolog,
// and tests swap in TestLogger. Contextual loggers are created with With,
// which pre-populates fields on every subsequent message.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields
	// given as alternating key/value pairs.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If the first field is an error value, stack trace information from
	// cockroachdb/errors is attached automatically.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated on
	// every subsequent log message.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	// Use it to skip expensive field construction for disabled levels.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, value-compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // detailed diagnostic information
	LevelInfo  Level = 0  // general operational information
	LevelWarn  Level = 4  // warning conditions
	LevelError Level = 8  // error conditions
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider defines an interface for creating and configuring loggers,
// enabling dependency injection and testing with different implementations.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger with a component identifier.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for loggers from this provider.
	SetLevel(level Level)
}
