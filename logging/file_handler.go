package logging

import (
	"fmt"
	"log/slog"
	"os"
)

// NewFileHandler appends JSON log lines to the file at path. The file must be
// closed by the caller.
func NewFileHandler(path string, minLevel slog.Level) (slog.Handler, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return slog.NewJSONHandler(f, &slog.HandlerOptions{Level: minLevel}), f, nil
}
