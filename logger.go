package geoio

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// Logger wraps slog.Logger with geoio-specific helpers. The package logs
// through a swappable default logger; Write* operations log the error
// detail they degrade to a boolean result.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. If handler is nil,
// uses a text handler to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))}
}

// WithPath tags the logger with a file path.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{Logger: l.Logger.With("path", path)}
}

// LogRead logs a completed read operation.
func (l *Logger) LogRead(kind, path string, err error) {
	if err != nil {
		l.Error("read failed", "kind", kind, "path", path, "error", err)
	} else {
		l.Debug("read completed", "kind", kind, "path", path)
	}
}

// LogWrite logs a completed write operation.
func (l *Logger) LogWrite(kind, path string, err error) {
	if err != nil {
		l.Error("write failed", "kind", kind, "path", path, "error", err)
	} else {
		l.Debug("write completed", "kind", kind, "path", path)
	}
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewLogger(nil))
}

// SetLogger replaces the package logger. Pass nil to restore the default
// text logger.
func SetLogger(l *Logger) {
	if l == nil {
		l = NewLogger(nil)
	}
	defaultLogger.Store(l)
}

func logger() *Logger {
	return defaultLogger.Load()
}
