// Package debug provides debug logging functionality using log/slog
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	// logger is the global debug logger instance
	logger = discardLogger()
	// enabled indicates if debug logging is enabled
	enabled bool
	// mu protects the logger and enabled flag
	mu sync.RWMutex
)

// Init turns debug logging on or off. When enabled, logs are written to
// os.Stderr; otherwise they are discarded.
func Init(enable bool) {
	InitWriter(enable, os.Stderr)
}

// InitWriter is Init with an explicit destination.
func InitWriter(enable bool, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	enabled = enable

	if !enable {
		logger = discardLogger()
		return
	}

	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	logger = slog.New(slog.NewTextHandler(w, opts))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError + 1,
	}))
}

// Enabled returns whether debug logging is enabled
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// With returns a logger with the given attributes
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

// Logger returns the underlying slog.Logger instance
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
