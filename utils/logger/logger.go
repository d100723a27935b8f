// Package logger provides the named, leveled logger used across the
// decoder. Writers are injected so main can tee output to a log file.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func parseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

type Logger struct {
	name  string
	level Level
	out   io.Writer
	mu    sync.Mutex
}

// NewLogger creates a named logger. A nil writer logs to stdout.
func NewLogger(name string, level string, out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	return &Logger{name: name, level: parseLevel(level), out: out}
}

func (l *Logger) log(level Level, tag string, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s [%s] [%s] %s\n",
		time.Now().Format("2006-01-02 15:04:05"), tag, l.name,
		fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, "DEBUG", format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, "INFO", format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarn, "WARN", format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, "ERROR", format, args...)
}
