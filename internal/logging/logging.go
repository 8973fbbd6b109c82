// Package logging builds the zerolog logger from configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/streamq/internal/config"
)

// New returns a logger for cfg and a close function for its output. Console
// output is human-readable, json output is one object per line.
func New(cfg config.LogConfig) (zerolog.Logger, func() error, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}

	out, closeFn, err := openOutput(cfg.Output)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	var w io.Writer = out
	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.TimeOnly,
			NoColor:    out != os.Stderr,
		}
	}

	l := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return l, closeFn, nil
}

func openOutput(output string) (*os.File, func() error, error) {
	if output == "" || output == "stderr" {
		return os.Stderr, func() error { return nil }, nil
	}
	f, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f.Close, nil
}
