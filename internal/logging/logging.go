// Package logging installs the process-wide slog logger. While the dashboard
// owns the terminal, records go to a rotating file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Sinks accepted in Options.Sink.
const (
	SinkFile   = "file"
	SinkStderr = "stderr"
	SinkNone   = "none"
)

// Options selects the level, encoding and destination of log records.
type Options struct {
	Level      string
	Format     string // text or json
	Sink       string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Debug forces the debug level and source locations.
	Debug   bool
	Version string
}

// Init builds a logger from opts, installs it as the slog default and
// returns a func that flushes and closes the sink.
func Init(opts Options) (func() error, error) {
	logger, closeFn, err := New(opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closeFn, nil
}

// New builds a logger without installing it.
func New(opts Options) (*slog.Logger, func() error, error) {
	w, closeFn, err := writer(opts)
	if err != nil {
		return nil, nil, err
	}

	level := parseLevel(opts.Level)
	if opts.Debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level, AddSource: opts.Debug}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	default:
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	logger := slog.New(handler).With(slog.String("app", "maglab"))
	if opts.Version != "" {
		logger = logger.With(slog.String("version", opts.Version))
	}
	return logger, closeFn, nil
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func writer(opts Options) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(opts.Sink) {
	case SinkNone:
		return io.Discard, noop, nil
	case SinkStderr:
		return os.Stderr, noop, nil
	case SinkFile, "":
		path := strings.TrimSpace(opts.File)
		if path == "" {
			return nil, nil, fmt.Errorf("logging: file sink needs a path")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("logging: creating log directory: %w", err)
		}
		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 3),
			MaxAge:     orDefault(opts.MaxAgeDays, 28),
			Compress:   true,
		}
		return rot, rot.Close, nil
	default:
		return nil, nil, fmt.Errorf("logging: unknown sink %q", opts.Sink)
	}
}

func orDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
