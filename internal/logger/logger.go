package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

func init() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") == "1" {
		level = slog.LevelDebug
	}
	current.Store(newLogger(os.Stderr, level, false))
}

// Init replaces the process logger. DEBUG=1 always forces debug level.
func Init(level string, jsonOutput bool) {
	lvl := parseLevel(level)
	if os.Getenv("DEBUG") == "1" {
		lvl = slog.LevelDebug
	}
	l := newLogger(os.Stderr, lvl, jsonOutput)
	current.Store(l)
	slog.SetDefault(l)
}

// SetOutput is used by tests to capture log lines.
func SetOutput(w io.Writer, level slog.Level) {
	current.Store(newLogger(w, level, false))
}

func L() *slog.Logger {
	return current.Load()
}

func DebugLog(format string, args ...any) {
	l := current.Load()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug(fmt.Sprintf(format, args...))
}

func Info(msg string, args ...any) {
	current.Load().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	current.Load().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	current.Load().Error(msg, args...)
}

func newLogger(w io.Writer, level slog.Level, jsonOutput bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if jsonOutput {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
