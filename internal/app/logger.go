package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger: JSON records when LOG_FORMAT=json
// (production collectors), human-readable text otherwise. The result is
// also installed as the slog default so stray slog calls share the format.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
