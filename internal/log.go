package internal

import (
	"io"
	"log/slog"
)

// NewLogger builds the structured logger used throughout the tracker.
// Where log output goes depends on the run mode:
// # Ticker mode
// - display messages go to stdout
// - logs go to stderr
// # TUI mode
// - the terminal belongs to the TUI, logs go to a file
// .
func NewLogger(out io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}
