// Package logger provides the process-wide leveled logger.
//
// The API mirrors a classic printf-style leveled logger (Debug, Info, Warn,
// Error) so call sites stay terse, while the records themselves are produced
// by logrus. Output goes to stderr by default because stdout carries the MCP
// protocol when the binary runs in stdio mode.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var std = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

// SetOutput sets the destination for all log records.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// SetLevel sets the minimum level that is emitted. Unknown values fall back
// to info.
func SetLevel(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		std.SetLevel(logrus.DebugLevel)
	case "info":
		std.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		std.SetLevel(logrus.WarnLevel)
	case "error":
		std.SetLevel(logrus.ErrorLevel)
	default:
		std.SetLevel(logrus.InfoLevel)
	}
}

// Level returns the name of the current level.
func Level() string {
	return std.GetLevel().String()
}

// SetFormat switches between "text" and "json" record formatting.
func SetFormat(format string) {
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		std.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	std.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// WithFields returns an entry carrying structured fields.
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return std.WithFields(logrus.Fields(fields))
}

// Debug logs a debug message
func Debug(format string, v ...interface{}) {
	std.Debugf(format, v...)
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	std.Infof(format, v...)
}

// Warn logs a warning message
func Warn(format string, v ...interface{}) {
	std.Warnf(format, v...)
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	std.Errorf(format, v...)
}
