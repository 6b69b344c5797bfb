package smoke

import (
	"io"
	"log/slog"
)

// NewLogger builds the process logger from the configured level.
func NewLogger(w io.Writer, cfg *Config) *slog.Logger {
	lvl, err := cfg.SlogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})).With("component", "smoke")
}
