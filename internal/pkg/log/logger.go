// Package log is a leveled wrapper around the standard logger.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
)

type Level uint8

const (
	Silent Level = iota
	Error
	Warn
	Info
	Debug
)

var levelNames = [...]string{
	Silent: "silent",
	Error:  "error",
	Warn:   "warn",
	Info:   "info",
	Debug:  "debug",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", l)
}

// ParseLevel accepts the names returned by Level.String.
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if name == s {
			return Level(l), nil
		}
	}

	return Info, fmt.Errorf("unknown log level: %q", s)
}

// NewLogger writes to stderr.
func NewLogger(level Level) *Logger {
	return NewLoggerTo(os.Stderr, level)
}

func NewLoggerTo(w io.Writer, level Level) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(w, "streamclone: ", log.LstdFlags),
	}
}

type Logger struct {
	level  Level
	logger *log.Logger
}

func (l *Logger) Level() Level {
	return l.level
}

func (l *Logger) logf(level Level, tag string, format string, args ...any) {
	if l.level < level {
		return
	}
	l.logger.Printf(tag+" "+format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.logf(Error, "[ERROR]", format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.logf(Warn, "[WARN]", format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.logf(Info, "[INFO]", format, args...)
}

// Debugf is used for per-attempt details such as share mode retries.
func (l *Logger) Debugf(format string, args ...any) {
	l.logf(Debug, "[DEBUG]", format, args...)
}
