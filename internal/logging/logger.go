package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a JSON logger on stdout as the slog default and returns its handler.
func Setup() slog.Handler {
	handler := NewJSONHandler(os.Stdout)
	slog.SetDefault(slog.New(handler))
	return handler
}

// NewJSONHandler writes INFO+ records as JSON lines to w.
func NewJSONHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}
