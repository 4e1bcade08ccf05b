// Package logging builds the CLI logger: a charmbracelet/log handler exposed
// to the engine as a logr.Logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-logr/logr"
)

// Level names a log threshold accepted by --log-level.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// ParseLevel resolves a level name case-insensitively. An empty string is
// InfoLevel.
func ParseLevel(raw string) (Level, error) {
	switch level := Level(strings.ToLower(strings.TrimSpace(raw))); level {
	case "":
		return InfoLevel, nil
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return level, nil
	}
	return "", fmt.Errorf("logging: unknown level %q", raw)
}

func (l Level) charm() charmlog.Level {
	switch l {
	case DebugLevel:
		return charmlog.DebugLevel
	case WarnLevel:
		return charmlog.WarnLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// Config configures New.
type Config struct {
	Level  Level
	Output io.Writer
	JSON   bool
	// Timestamps adds a time field to every line.
	Timestamps bool
}

// DefaultConfig logs info and above as text on stderr, keeping stdout for
// command output.
func DefaultConfig() Config {
	return Config{Level: InfoLevel, Output: os.Stderr}
}

// New returns the charm logger configured by cfg.
func New(cfg Config) *charmlog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	logger := charmlog.NewWithOptions(cfg.Output, charmlog.Options{
		Level:           cfg.Level.charm(),
		ReportTimestamp: cfg.Timestamps,
		TimeFormat:      "15:04:05",
		Prefix:          "podgen",
	})
	if cfg.JSON {
		logger.SetFormatter(charmlog.JSONFormatter)
	} else {
		logger.SetFormatter(charmlog.TextFormatter)
	}
	return logger
}

// Logr bridges a charm logger to logr through its slog handler. logr
// verbosity V(n) maps to slog level -n, so V(1) traces show at debug level.
func Logr(logger *charmlog.Logger) logr.Logger {
	if logger == nil {
		return logr.Discard()
	}
	return logr.FromSlogHandler(logger)
}

// NewLogr is New followed by Logr.
func NewLogr(cfg Config) logr.Logger {
	return Logr(New(cfg))
}
