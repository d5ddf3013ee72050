package logging

import (
	"io"
	"log/slog"
	"os"
)

// New builds the process logger. Pass a writer for tests; nil defaults
// to stdout.
func New(level slog.Level, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
