// Package logger provides verbose logging for the ItsuNani CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr as slog key=value lines. Errors are always printed.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	log               = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Timestamps are noise on an interactive terminal.
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	log = newLogger(w)
}

// Output returns the current log writer.
func Output() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return output
}

// Debug logs a message with key/value pairs if verbose mode is enabled.
func Debug(msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		log.Debug(msg, args...)
	}
}

// Info logs an informational message if verbose mode is enabled.
func Info(msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		log.Info(msg, args...)
	}
}

// Warn logs a warning if verbose mode is enabled.
func Warn(msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		log.Warn(msg, args...)
	}
}

// Notice logs a warning regardless of verbose mode.
// Use it for events that lose user data.
func Notice(msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Warn(msg, args...)
}

// Error logs an error regardless of verbose mode.
func Error(msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Error(msg, args...)
}
