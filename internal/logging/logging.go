// Package logging builds the leveled loggers shared by the binaries.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/TWRT/todos/internal/config"
)

type Options struct {
	Level     string
	Format    string
	Prefix    string
	Timestamp bool
}

// New returns a logger writing to stderr configured from cfg.
func New(cfg *config.Config, prefix string) (*log.Logger, error) {
	return NewWithWriter(os.Stderr, Options{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Prefix:    prefix,
		Timestamp: true,
	})
}

func NewWithWriter(w io.Writer, opts Options) (*log.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	formatter, err := ParseFormatter(opts.Format)
	if err != nil {
		return nil, err
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.Timestamp,
		TimeFormat:      time.RFC3339,
	}), nil
}

// ParseLevel accepts debug, info, warn, error and fatal. Empty means info.
func ParseLevel(s string) (log.Level, error) {
	if strings.TrimSpace(s) == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// ParseFormatter accepts text, json and logfmt. Empty means text.
func ParseFormatter(s string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("invalid log format %q", s)
	}
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
