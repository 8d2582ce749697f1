package mock

import (
	"github.com/fwojciec/stage"
)

// Compile-time interface verification.
var _ stage.Storage = (*Storage)(nil)

// Storage is a mock implementation of stage.Storage.
type Storage struct {
	ExistsFn     func(path string) bool
	ReadFileFn   func(path string) (string, error)
	WriteFileFn  func(path string, content string) error
	RemoveFileFn func(path string) error
}

func (s *Storage) Exists(path string) bool {
	return s.ExistsFn(path)
}

func (s *Storage) ReadFile(path string) (string, error) {
	return s.ReadFileFn(path)
}

func (s *Storage) WriteFile(path string, content string) error {
	return s.WriteFileFn(path, content)
}

func (s *Storage) RemoveFile(path string) error {
	return s.RemoveFileFn(path)
}
