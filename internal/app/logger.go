package app

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Logger interface for app layer
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Log levels in increasing severity
const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// leveledLogger writes to stderr, suppressing messages below its level
type leveledLogger struct {
	output io.Writer
	level  int
}

// NewLogger creates a stderr logger honoring the given level name
// (debug, info, warn, error); unknown names fall back to info
func NewLogger(level string) Logger {
	return &leveledLogger{output: os.Stderr, level: parseLevel(level)}
}

func parseLevel(level string) int {
	switch strings.ToLower(level) {
	case "debug":
		return levelDebug
	case "warn", "warning":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (l *leveledLogger) log(level int, prefix, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	fmt.Fprintf(l.output, prefix+format+"\n", args...)
}

func (l *leveledLogger) Debug(format string, args ...interface{}) {
	l.log(levelDebug, "DEBUG: ", format, args...)
}

func (l *leveledLogger) Info(format string, args ...interface{}) {
	l.log(levelInfo, "INFO: ", format, args...)
}

func (l *leveledLogger) Warn(format string, args ...interface{}) {
	l.log(levelWarn, "WARN: ", format, args...)
}

func (l *leveledLogger) Error(format string, args ...interface{}) {
	l.log(levelError, "ERROR: ", format, args...)
}

// globalLogger is the logger instance used by app layer
var globalLogger Logger = &leveledLogger{output: os.Stderr, level: levelInfo}

// SetLogger sets the global logger for app layer
func SetLogger(logger Logger) {
	if logger != nil {
		globalLogger = logger
	}
}

// GetLogger returns the current logger
func GetLogger() Logger {
	return globalLogger
}
