package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/arcgo/pkg/errors"
)

// zerologLogger is the default Logger implementation backed by rs/zerolog.
type zerologLogger struct {
	z zerolog.Logger
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewZerologLogger(os.Stderr, LevelInfo)
)

func init() {
	// Route library warnings through the structured logger.
	errors.SetZerologWarnFunc(func(warning error) {
		GetLogger().Warn("arcgo warning", ErrAttrKey, warning)
	})
}

// NewZerologLogger creates a Logger writing JSON lines to w at the given
// minimum level.
func NewZerologLogger(w io.Writer, level Level) Logger {
	z := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &zerologLogger{z: z}
}

// GetLogger returns the process-wide default logger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetLogger replaces the process-wide default logger. Intended for wiring a
// test logger or an application-configured backend.
func SetLogger(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// GetLoggerWithName returns the default logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(ComponentKey, name)
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func fromZerologLevel(level zerolog.Level) Level {
	switch level {
	case zerolog.DebugLevel:
		return LevelDebug
	case zerolog.InfoLevel:
		return LevelInfo
	case zerolog.WarnLevel:
		return LevelWarn
	default:
		return LevelError
	}
}

// ToLevel parses a level name ("debug", "info", "warn", "error").
// Unknown names map to LevelInfo.
func ToLevel(level string) Level {
	switch level {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	applyFields(l.z.Debug(), fields).Msg(msg)
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	applyFields(l.z.Info(), fields).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	applyFields(l.z.Warn(), fields).Msg(msg)
}

func (l *zerologLogger) Error(msg string, fields ...any) {
	event := l.z.Error()
	// An error as the first field gets special treatment: it is logged
	// under the error key together with any available stack trace.
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			event = event.AnErr(ErrAttrKey, err)
			if st := extractStacktrace(err); st != "" {
				event = event.Str(StacktraceAttrKey, st)
			}
			fields = fields[1:]
		}
	}
	applyFields(event, fields).Msg(msg)
}

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.z.With()
	for i := 0; i+1 < len(fields); i += 2 {
		ctx = ctx.Interface(fieldKey(fields[i]), fields[i+1])
	}
	return &zerologLogger{z: ctx.Logger()}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= l.z.GetLevel()
}

// applyFields attaches alternating key/value pairs to a zerolog event.
// A trailing key without a value is ignored.
func applyFields(event *zerolog.Event, fields []any) *zerolog.Event {
	for i := 0; i+1 < len(fields); i += 2 {
		key := fieldKey(fields[i])
		switch v := fields[i+1].(type) {
		case error:
			event = event.AnErr(key, v)
		case zerolog.LogObjectMarshaler:
			event = event.Object(key, v)
		default:
			event = event.Interface(key, v)
		}
	}
	return event
}

func fieldKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}
