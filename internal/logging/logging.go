// Package logging sets up file-backed structured logging. The terminal
// belongs to the UI, so diagnostic output always goes to a file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Open creates a slog.Logger writing to the given file path, creating
// parent directories as needed. The returned close function flushes
// and closes the underlying file.
func Open(path string) (*slog.Logger, func() error, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	logger := slog.New(slog.NewTextHandler(f, nil))
	return logger, f.Close, nil
}

// Discard returns a logger that drops everything. Used in tests and as
// a fallback when the log file cannot be opened.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// DefaultLogPath returns ~/.config/eventdeck/eventdeck.log, falling
// back to the working directory when the home directory is unknown.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "eventdeck.log")
	}
	return filepath.Join(home, ".config", "eventdeck", "eventdeck.log")
}
