package pocketdeck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

type Logger interface {
	Debug(msg string)
	Debugf(format string, v ...any)
	Info(msg string)
	Infof(format string, v ...any)
	Warn(msg string)
	Warnf(format string, v ...any)
	Error(msg string)
	Errorf(format string, v ...any)
}

// slogLogger adapts a *slog.Logger to Logger. Formatted variants are rendered with fmt before being handed to
// slog so that call sites stay as terse as println.
type slogLogger struct {
	l *slog.Logger
}

// NewLogger returns a Logger writing text records at or above level to w.
func NewLogger(w io.Writer, level slog.Level) Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slogLogger{l: slog.New(h)}
}

// WrapLogger returns a Logger backed by an existing slog logger.
func WrapLogger(l *slog.Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return slogLogger{l: l}
}

func (s slogLogger) log(level slog.Level, msg string) {
	s.l.Log(context.Background(), level, msg)
}

func (s slogLogger) Debug(msg string) { s.log(slog.LevelDebug, msg) }

func (s slogLogger) Debugf(format string, v ...any) {
	if !s.l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	s.log(slog.LevelDebug, fmt.Sprintf(format, v...))
}

func (s slogLogger) Info(msg string) { s.log(slog.LevelInfo, msg) }

func (s slogLogger) Infof(format string, v ...any) { s.log(slog.LevelInfo, fmt.Sprintf(format, v...)) }

func (s slogLogger) Warn(msg string) { s.log(slog.LevelWarn, msg) }

func (s slogLogger) Warnf(format string, v ...any) { s.log(slog.LevelWarn, fmt.Sprintf(format, v...)) }

func (s slogLogger) Error(msg string) { s.log(slog.LevelError, msg) }

func (s slogLogger) Errorf(format string, v ...any) { s.log(slog.LevelError, fmt.Sprintf(format, v...)) }

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string)          {}
func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Info(string)           {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warn(string)           {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Error(string)          {}
func (NopLogger) Errorf(string, ...any) {}
