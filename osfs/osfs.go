// Package osfs implements stage.Storage over the local filesystem.
package osfs

import (
	"os"
	"path/filepath"

	"github.com/fwojciec/stage"
)

// Compile-time interface verification.
var _ stage.Storage = (*Storage)(nil)

// Storage reads and writes files through the os package.
type Storage struct{}

// NewStorage creates a new filesystem storage.
func NewStorage() *Storage {
	return &Storage{}
}

// Exists reports whether a file exists at path.
func (s *Storage) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile returns the full content of the file at path.
func (s *Storage) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile replaces the file's content, creating parent directories if needed.
func (s *Storage) WriteFile(path string, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// RemoveFile deletes the file at path.
func (s *Storage) RemoveFile(path string) error {
	return os.Remove(path)
}

// DefaultHistoryPath returns the default apply-history location.
// STAGE_HISTORY takes precedence, then XDG_CACHE_HOME, then ~/.cache/stage,
// falling back to the system temp directory if home is unavailable.
func DefaultHistoryPath() string {
	if p := os.Getenv("STAGE_HISTORY"); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "stage", "history.jsonl")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "stage", "history.jsonl")
	}
	return filepath.Join(home, ".cache", "stage", "history.jsonl")
}
