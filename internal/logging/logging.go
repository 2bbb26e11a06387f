// Package logging builds the slog loggers keysync writes to stderr or a
// file. Stdout is reserved for the MCP stdio transport.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config selects level, format and destination.
type Config struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // text | json
	File   string `mapstructure:"file" yaml:"file"`     // empty: stderr
}

// DefaultConfig logs info-level text to stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "text"}
}

// New creates a logger writing to w.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// FromConfig builds the process logger. The returned closer releases the
// log file, if any; it is never nil.
func FromConfig(cfg Config) (*slog.Logger, io.Closer, error) {
	switch strings.ToLower(cfg.Format) {
	case "", "text", "json":
	default:
		return nil, nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}
	level := LevelFromString(cfg.Level)

	if cfg.File == "" {
		return New(os.Stderr, level, cfg.Format), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
		return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: open %s: %w", cfg.File, err)
	}
	return New(f, level, cfg.Format), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewDiscard returns a logger that drops everything.
func NewDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(100)}))
}

// LevelFromString parses debug, info, warn or error (case-insensitive),
// defaulting to info.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
