// Copyright 2026 The Parley Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging opens the structured log file under the parley home
// directory. It depends on the home directory being resolved, so it
// initializes after the home resolver and closes late during teardown.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the log file created under the home directory.
const FileName = "parley.log"

// Format selects the log output format.
type Format string

const (
	// FormatText outputs human-readable text lines.
	FormatText Format = "text"
	// FormatJSON outputs one JSON object per record.
	FormatJSON Format = "json"
)

// Config holds the logging configuration.
type Config struct {
	// Level is the minimum level (trace, debug, info, warn, error).
	// Default: info.
	Level string

	// Format is text or json. Default: text.
	Format Format

	// AddSource adds source file and line information.
	AddSource bool
}

// DefaultConfig returns a Config with defaults suitable for the log file.
func DefaultConfig() *Config {
	return &Config{Level: "info", Format: FormatText}
}

// FromEnv builds a Config from environment variables:
//   - PARLEY_DEBUG: true/1 enables debug level and source info
//   - PARLEY_LOG_LEVEL: trace, debug, info, warn, error
//   - PARLEY_LOG_FORMAT: text, json
func FromEnv() *Config {
	cfg := DefaultConfig()
	if v := os.Getenv("PARLEY_DEBUG"); v == "true" || v == "1" {
		cfg.Level = "debug"
		cfg.AddSource = true
	} else if level := os.Getenv("PARLEY_LOG_LEVEL"); level != "" {
		cfg.Level = strings.ToLower(level)
	}
	if format := os.Getenv("PARLEY_LOG_FORMAT"); format != "" {
		cfg.Format = Format(strings.ToLower(format))
	}
	return cfg
}

// Log is the open log file with its slog logger.
type Log struct {
	file   *os.File
	logger *slog.Logger
}

// Open creates or appends the log file under home and returns the log.
func Open(homeDir string, cfg *Config) (*Log, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	path := filepath.Join(homeDir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file %q: %w", path, err)
	}
	return &Log{file: f, logger: New(cfg, f)}, nil
}

// Logger returns the slog logger writing to the file.
func (l *Log) Logger() *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.logger
}

// Close flushes and closes the log file. Safe on nil and safe to call
// twice.
func (l *Log) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// New creates a structured logger writing to w.
func New(cfg *Config, w io.Writer) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}
	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return slog.Level(-8)
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
