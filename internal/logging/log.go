package logging

import (
	"log"
	"os"
)

// Level represents logging verbosity
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// Logger provides leveled logging over the standard library logger
type Logger struct {
	level     Level
	component string
}

// New creates a logger with the specified level
func New(level Level) *Logger {
	return &Logger{level: level}
}

// NewDefault creates a logger from the LOG_LEVEL environment variable
func NewDefault() *Logger {
	level := LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "ERROR":
		level = LevelError
	case "WARN":
		level = LevelWarn
	case "DEBUG":
		level = LevelDebug
	}
	return &Logger{level: level}
}

// With returns a logger whose lines carry a component prefix
func (l *Logger) With(component string) *Logger {
	return &Logger{level: l.level, component: component}
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.printf(LevelError, "[ERROR] ", format, args...)
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.printf(LevelWarn, "[WARN] ", format, args...)
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.printf(LevelInfo, "[INFO] ", format, args...)
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.printf(LevelDebug, "[DEBUG] ", format, args...)
}

func (l *Logger) printf(level Level, prefix, format string, args ...interface{}) {
	if l.level < level {
		return
	}
	if l.component != "" {
		prefix = prefix + "[" + l.component + "] "
	}
	log.Printf(prefix+format, args...)
}
