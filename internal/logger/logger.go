// Package logger is the engine's structured logging layer. Call sites
// attach typed fields and pull request/user scope from the context; the
// backend is swappable behind the Logger interface.
package logger

import (
	"context"
	"time"
)

// Level is the minimum severity a logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Field is one structured key-value pair on a log entry.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Err names the field "error" so failures are greppable across the
// whole log stream.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Logger is implemented by logging backends.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child logger carrying the given fields on every entry.
	With(fields ...Field) Logger
	// WithContext returns a child logger carrying the context's
	// request_id and user_id fields.
	WithContext(ctx context.Context) Logger
}

// Config holds logging configuration.
type Config struct {
	Level Level
	// Format is "json" or "text".
	Format string
	// AddSource appends file:line to each entry.
	AddSource bool
}

// DefaultConfig is JSON at info level, the production shape.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Format: "json",
	}
}

var defaultLogger Logger

// SetDefault installs the process-wide logger. Called once at startup.
func SetDefault(l Logger) {
	defaultLogger = l
}

// Default returns the process-wide logger, initializing a standard one
// on first use so early call sites never nil-panic.
func Default() Logger {
	if defaultLogger == nil {
		defaultLogger = NewSlogLogger(DefaultConfig())
	}
	return defaultLogger
}

// Package-level shorthands over the default logger.
func Debug(msg string, fields ...Field) { Default().Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { Default().Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { Default().Warn(msg, fields...) }
func Error(msg string, fields ...Field) { Default().Error(msg, fields...) }
func With(fields ...Field) Logger       { return Default().With(fields...) }
