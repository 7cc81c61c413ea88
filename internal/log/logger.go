// SPDX-License-Identifier: MIT

// Package log is a small levelled logger. The level is global and atomic so
// it can be raised or lowered from any goroutine; the real-time paths never
// log, only construction, reconfiguration and I/O do.
package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync/atomic"
)

// LogLevel defines the severity of a log message.
type LogLevel uint32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string (case-insensitive) to a LogLevel.
// Returns LevelInfo and false if the string is not recognized.
func ParseLevel(levelStr string) (LogLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	case "FATAL":
		return LevelFatal, true
	default:
		return LevelInfo, false
	}
}

var (
	currentLevel atomic.Uint32
	output       = stdlog.New(os.Stderr, "", stdlog.Ldate|stdlog.Ltime|stdlog.Lmicroseconds)
)

func init() {
	SetLevel(LevelInfo)
}

// SetLevel sets the global logging level.
func SetLevel(level LogLevel) {
	currentLevel.Store(uint32(level))
}

// GetLevel returns the global logging level.
func GetLevel() LogLevel {
	return LogLevel(currentLevel.Load())
}

// SetOutput redirects every logger. The TUI points it at a file so log lines
// do not tear the alternate screen.
func SetOutput(w io.Writer) {
	output.SetOutput(w)
}

func enabled(level LogLevel) bool {
	return level >= GetLevel()
}

func emit(level LogLevel, component, msg string) {
	if component != "" {
		msg = component + ": " + msg
	}
	// Pad to a fixed width so messages line up.
	output.Printf("[%-5s] %s", level, msg)
}

// Logger prefixes every message with a component name.
type Logger struct {
	component string
}

// With returns a Logger for the named component.
func With(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) Debugf(format string, v ...any) {
	if enabled(LevelDebug) {
		emit(LevelDebug, l.component, fmt.Sprintf(format, v...))
	}
}

func (l *Logger) Infof(format string, v ...any) {
	if enabled(LevelInfo) {
		emit(LevelInfo, l.component, fmt.Sprintf(format, v...))
	}
}

func (l *Logger) Warnf(format string, v ...any) {
	if enabled(LevelWarn) {
		emit(LevelWarn, l.component, fmt.Sprintf(format, v...))
	}
}

func (l *Logger) Errorf(format string, v ...any) {
	if enabled(LevelError) {
		emit(LevelError, l.component, fmt.Sprintf(format, v...))
	}
}

// Fatalf always logs, then exits the process.
func (l *Logger) Fatalf(format string, v ...any) {
	emit(LevelFatal, l.component, fmt.Sprintf(format, v...))
	os.Exit(1)
}

var root = &Logger{}

// Debugf logs a formatted debug message without a component prefix.
func Debugf(format string, v ...any) { root.Debugf(format, v...) }

// Infof logs a formatted info message without a component prefix.
func Infof(format string, v ...any) { root.Infof(format, v...) }

// Warnf logs a formatted warning without a component prefix.
func Warnf(format string, v ...any) { root.Warnf(format, v...) }

// Errorf logs a formatted error without a component prefix.
func Errorf(format string, v ...any) { root.Errorf(format, v...) }

// Fatalf logs a formatted fatal message and exits.
func Fatalf(format string, v ...any) { root.Fatalf(format, v...) }
