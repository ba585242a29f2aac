package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

var std = newLogger(os.Stderr, false)

func newLogger(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "graphbot",
	})
}

// Init sets the global logger up, writing to stderr.
func Init(debug bool) {
	std = newLogger(os.Stderr, debug)
}

// SetOutput redirects the global logger, keeping its level.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// Info writes a message at INFO level.
func Info(message string, keyvals ...any) {
	std.Info(message, keyvals...)
}

// Warn writes a message at WARN level.
func Warn(message string, keyvals ...any) {
	std.Warn(message, keyvals...)
}

// Error writes a message at ERROR level.
func Error(message string, keyvals ...any) {
	std.Error(message, keyvals...)
}

// Debug writes a message at DEBUG level.
func Debug(message string, keyvals ...any) {
	std.Debug(message, keyvals...)
}

// Fatal writes a message at FATAL level and exits.
func Fatal(message string, keyvals ...any) {
	std.Fatal(message, keyvals...)
}
