// Package logging provides a simple leveled logger with optional
// per-component scoping.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents log severity.
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

// ParseLevel parses a log level string.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "info", "INFO":
		return LevelInfo
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a simple leveled logger. Scoped loggers share the parent's
// output and level.
type Logger struct {
	mu     *sync.Mutex
	level  *Level
	output *io.Writer
	scope  string
}

// New creates a new logger writing to stderr.
func New(level Level) *Logger {
	out := io.Writer(os.Stderr)
	return &Logger{
		mu:     &sync.Mutex{},
		level:  &level,
		output: &out,
	}
}

// With returns a logger that prefixes every message with the component
// name.
func (l *Logger) With(component string) *Logger {
	scoped := *l
	scoped.scope = component
	return &scoped
}

// SetOutput sets the log output destination for the logger and all loggers
// scoped from it.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.output = w
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.level = level
}

func (l *Logger) log(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < *l.level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if l.scope != "" {
		msg = l.scope + ": " + msg
	}
	line := fmt.Sprintf("%s [%s] %s\n", time.Now().Format("15:04:05.000"), level, msg)
	_, _ = (*l.output).Write([]byte(line))
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	level := LevelError + 1
	out := io.Discard
	return &Logger{
		mu:     &sync.Mutex{},
		level:  &level,
		output: &out,
	}
}
