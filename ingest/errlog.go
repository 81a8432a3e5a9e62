package ingest

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	errorLogMaxSizeMB  = 10
	errorLogMaxBackups = 5
)

// newErrorLogger builds the rotating logger that records failed documents.
// An empty path disables it.
func newErrorLogger(path string) *slog.Logger {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    errorLogMaxSizeMB,
		MaxBackups: errorLogMaxBackups,
	}
	return slog.New(slog.NewTextHandler(writer, nil))
}
