// Package log builds the slog.Logger used across the keypad.
//
// Without a log file, records below error go to stdout (or Options.Console)
// and errors go to stderr. With a log file, the console only receives errors unless the
// console is disabled entirely (the terminal simulator owns the screen).
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LevelTrace sits below Debug and enables raw traffic dumps.
const LevelTrace slog.Level = -8

func ParseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MultiHandler fans out records to multiple handlers.
type MultiHandler struct{ hs []slog.Handler }

func (m MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.hs {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		_ = h.Handle(ctx, r.Clone())
	}
	return nil
}

func (m MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		out[i] = h.WithAttrs(attrs)
	}
	return MultiHandler{hs: out}
}

func (m MultiHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		out[i] = h.WithGroup(name)
	}
	return MultiHandler{hs: out}
}

// LevelFilter passes records to h only when pass accepts their level.
type LevelFilter struct {
	pass func(slog.Level) bool
	h    slog.Handler
}

func (f LevelFilter) Enabled(ctx context.Context, level slog.Level) bool {
	return f.pass(level) && f.h.Enabled(ctx, level)
}

func (f LevelFilter) Handle(ctx context.Context, r slog.Record) error {
	if !f.pass(r.Level) {
		return nil
	}
	return f.h.Handle(ctx, r)
}

func (f LevelFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return LevelFilter{pass: f.pass, h: f.h.WithAttrs(attrs)}
}

func (f LevelFilter) WithGroup(name string) slog.Handler {
	return LevelFilter{pass: f.pass, h: f.h.WithGroup(name)}
}

// Options controls SetupLogger.
type Options struct {
	Level string
	File  string
	// NoConsole suppresses stdout/stderr output.
	NoConsole bool
	// Console receives records below error; nil means stdout. Commands
	// that answer on stdout point it at stderr.
	Console io.Writer
}

// SetupLogger builds a slog.Logger with console and optional file handlers.
func SetupLogger(o Options) (*slog.Logger, []io.Closer, error) {
	level := ParseLevel(o.Level)
	var handlers []slog.Handler

	if !o.NoConsole {
		if o.File == "" {
			console := o.Console
			if console == nil {
				console = os.Stdout
			}
			stdout := slog.NewTextHandler(console, &slog.HandlerOptions{Level: level})
			handlers = append(handlers, LevelFilter{pass: func(l slog.Level) bool { return l < slog.LevelError }, h: stdout})
		}
		stderr := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})
		handlers = append(handlers, LevelFilter{pass: func(l slog.Level) bool { return l >= slog.LevelError }, h: stderr})
	}

	var closers []io.Closer
	if o.File != "" {
		f, err := os.OpenFile(o.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, f)
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(MultiHandler{hs: handlers}), closers, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(MultiHandler{})
}
