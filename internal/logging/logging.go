// Package logging provides structured logging setup for rental-finder.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup initializes the default slog logger on stdout.
func Setup(devMode bool) {
	slog.SetDefault(New(os.Stdout, devMode))
}

// New returns a logger writing to w.
// Dev mode uses human-readable text at debug level; prod uses JSON at info.
func New(w io.Writer, devMode bool) *slog.Logger {
	if devMode {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
