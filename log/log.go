// Package log is a thin leveled wrapper around the standard library
// logger. It exists so dataset drains can report progress at Info while
// keeping per-feature diagnostics behind Debug.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
)

type Level int

const (
	LevelError Level = iota + 1
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "NOTSET"
	}
}

type Logger struct {
	l     *log.Logger
	level Level
}

var std = NewFromLogger(log.New(os.Stderr, "", log.LstdFlags), LevelInfo)

// Default returns the standard logger used by the package-level output
// functions.
func Default() *Logger { return std }

func New(out io.Writer, prefix string, flag int, level Level) *Logger {
	return NewFromLogger(log.New(out, prefix, flag), level)
}

func NewFromLogger(l *log.Logger, level Level) *Logger {
	return &Logger{l: l, level: level}
}

// Level returns the logger's current threshold.
func (l *Logger) Level() Level {
	return l.level
}

// SetLevel sets the threshold below which messages are dropped.
func (l *Logger) SetLevel(level Level) {
	l.level = level
}

// SetOutput sets the output destination for the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.l.SetOutput(w)
}

// SetFlags sets the output flags for the logger, as in the standard
// library.
func (l *Logger) SetFlags(flag int) {
	l.l.SetFlags(flag)
}

func (l *Logger) logf(level Level, format string, v ...any) {
	if level > l.level {
		return
	}
	l.l.Output(3, fmt.Sprintf("[%-5s] %s", level, fmt.Sprintf(format, v...)))
}

func (l *Logger) Errorf(format string, v ...any) { l.logf(LevelError, format, v...) }
func (l *Logger) Warnf(format string, v ...any)  { l.logf(LevelWarn, format, v...) }
func (l *Logger) Infof(format string, v ...any)  { l.logf(LevelInfo, format, v...) }
func (l *Logger) Debugf(format string, v ...any) { l.logf(LevelDebug, format, v...) }

// Fatalf is equivalent to Errorf followed by a call to os.Exit(1).
func (l *Logger) Fatalf(format string, v ...any) {
	l.logf(LevelError, format, v...)
	os.Exit(1)
}

// SetOutput sets the output destination for the standard logger.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// SetLevel sets the threshold for the standard logger.
func SetLevel(level Level) {
	std.SetLevel(level)
}

func Errorf(format string, v ...any) { std.logf(LevelError, format, v...) }
func Warnf(format string, v ...any)  { std.logf(LevelWarn, format, v...) }
func Infof(format string, v ...any)  { std.logf(LevelInfo, format, v...) }
func Debugf(format string, v ...any) { std.logf(LevelDebug, format, v...) }

func Fatalf(format string, v ...any) { std.Fatalf(format, v...) }
