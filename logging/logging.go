// Package logging builds the charmbracelet loggers used across escapecore.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nathoo/escapecore/config"
)

// Prefix is the logger prefix for every escapecore logger.
const Prefix = "escapecore"

// New builds a logger writing to w at the configured level.
func New(w io.Writer, cfg config.LogConfig) (*log.Logger, error) {
	level := log.InfoLevel
	if cfg.Level != "" {
		lvl, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
		level = lvl
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          Prefix,
		Level:           level,
	}), nil
}

// NewFile builds a logger for fronts that own the terminal. It writes to
// cfg.File when set and discards everything otherwise. The returned close
// function is never nil.
func NewFile(cfg config.LogConfig) (*log.Logger, func() error, error) {
	noop := func() error { return nil }
	if cfg.File == "" {
		l, err := New(io.Discard, cfg)
		return l, noop, err
	}

	path, err := config.ExpandHome(cfg.File)
	if err != nil {
		return nil, noop, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, noop, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, noop, fmt.Errorf("cannot open log file: %w", err)
	}
	l, err := New(f, cfg)
	if err != nil {
		f.Close()
		return nil, noop, err
	}
	return l, f.Close, nil
}
