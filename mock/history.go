package mock

import (
	"github.com/fwojciec/stage"
)

// Compile-time interface verification.
var _ stage.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is a mock implementation of stage.HistoryStore.
type HistoryStore struct {
	AppendFn func(path string, entries []stage.HistoryEntry) error
	LoadFn   func(path string) ([]stage.HistoryEntry, error)
}

func (h *HistoryStore) Append(path string, entries []stage.HistoryEntry) error {
	return h.AppendFn(path, entries)
}

func (h *HistoryStore) Load(path string) ([]stage.HistoryEntry, error) {
	return h.LoadFn(path)
}
