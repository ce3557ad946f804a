// Package logging builds the root slog.Logger, optionally teeing output
// into a size-rotated log file.
package logging

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger writing to w and, when cfg.File is set, to a
// rotating file. The returned Closer releases the file and must be
// called on shutdown.
func New(cfg *Config, w io.Writer) (*slog.Logger, io.Closer) {
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename: cfg.File,
			MaxSize:  cfg.MaxSizeMB,
			MaxAge:   cfg.MaxAgeDays,
		}
		w = io.MultiWriter(w, file)
		closer = file
	}

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler), closer
}
