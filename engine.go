package stage

import (
	"fmt"
	"path/filepath"
)

// Engine owns the pending change set: an insertion-ordered mapping of
// absolute paths to file diffs, held only in memory until Apply or Discard.
//
// An Engine is not safe for concurrent use. Every operation is synchronous
// and callers coordinate access externally.
type Engine struct {
	storage      Storage
	builder      DiffBuilder
	contextLines int

	order   []string
	changes map[string]*FileDiff
}

// Option configures an Engine.
type Option func(*Engine)

// WithContextLines sets the number of unchanged lines kept around each
// change. Negative values are treated as zero.
func WithContextLines(n int) Option {
	return func(e *Engine) {
		if n < 0 {
			n = 0
		}
		e.contextLines = n
	}
}

// WithBuilder replaces the default positional diff builder.
func WithBuilder(b DiffBuilder) Option {
	return func(e *Engine) {
		if b != nil {
			e.builder = b
		}
	}
}

// NewEngine creates an engine that reads and writes files through storage.
func NewEngine(storage Storage, opts ...Option) *Engine {
	e := &Engine{
		storage:      storage,
		builder:      positionalBuilder{},
		contextLines: DefaultContextLines,
		changes:      make(map[string]*FileDiff),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddChange registers a pending create or modify for path with the full
// replacement content. For modifications of existing files the current
// content is read from storage as the old side of the diff. Registering a
// path twice replaces the earlier diff and keeps its position.
func (e *Engine) AddChange(path, newContent string, kind ChangeKind) (*FileDiff, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	oldContent := ""
	if kind == ChangeModify && e.storage.Exists(abs) {
		oldContent, err = e.storage.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", abs, err)
		}
	}

	hunks := e.builder.Build(oldContent, newContent, e.contextLines)
	fd := NewFileDiff(abs, kind, oldContent, newContent, hunks)
	e.register(&fd)
	return &fd, nil
}

// AddDeletion registers a pending deletion for path. The path must exist in
// storage; its content becomes the old side of an all-deletions diff.
func (e *Engine) AddDeletion(path string) (*FileDiff, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if !e.storage.Exists(abs) {
		return nil, fmt.Errorf("%s: %w", abs, ErrNotFound)
	}

	oldContent, err := e.storage.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", abs, err)
	}

	hunks := e.builder.Build(oldContent, "", e.contextLines)
	fd := NewFileDiff(abs, ChangeDelete, oldContent, "", hunks)
	e.register(&fd)
	return &fd, nil
}

// Discard clears the pending change set without touching storage.
func (e *Engine) Discard() {
	e.order = nil
	e.changes = make(map[string]*FileDiff)
}

// HasPending reports whether any changes are registered.
func (e *Engine) HasPending() bool {
	return len(e.order) > 0
}

// PendingFiles returns the registered paths in insertion order.
func (e *Engine) PendingFiles() []string {
	return append([]string(nil), e.order...)
}

// Diffs returns copies of the pending file diffs in insertion order.
func (e *Engine) Diffs() []FileDiff {
	diffs := make([]FileDiff, 0, len(e.order))
	for _, path := range e.order {
		diffs = append(diffs, *e.changes[path])
	}
	return diffs
}

// Diff returns the pending diff for path, if one is registered.
func (e *Engine) Diff(path string) (FileDiff, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileDiff{}, false
	}
	fd, ok := e.changes[abs]
	if !ok {
		return FileDiff{}, false
	}
	return *fd, true
}

// Apply commits the pending change set to storage in insertion order, one
// storage operation per file. Failures are recorded per file and never abort
// the remaining entries; already written files are not rolled back. The set
// is cleared unconditionally afterwards, so the result is the only record of
// what happened.
func (e *Engine) Apply() ApplyResult {
	result := ApplyResult{TotalAttempted: len(e.order)}
	for _, path := range e.order {
		fd := e.changes[path]

		var err error
		if fd.Kind == ChangeDelete {
			err = e.storage.RemoveFile(path)
		} else {
			err = e.storage.WriteFile(path, fd.NewContent)
		}

		if err != nil {
			result.Failed = append(result.Failed, FileError{Path: path, Err: err.Error()})
			continue
		}
		result.Applied = append(result.Applied, path)
	}
	e.Discard()
	return result
}

// Stats returns a single-pass aggregation of the pending change set.
func (e *Engine) Stats() Stats {
	var stats Stats
	for _, path := range e.order {
		fd := e.changes[path]
		stats.TotalFiles++
		switch fd.Kind {
		case ChangeCreate:
			stats.FilesCreated++
		case ChangeDelete:
			stats.FilesDeleted++
		default:
			stats.FilesModified++
		}
		stats.TotalAdditions += fd.Additions
		stats.TotalDeletions += fd.Deletions
	}
	return stats
}

func (e *Engine) register(fd *FileDiff) {
	if _, ok := e.changes[fd.Path]; !ok {
		e.order = append(e.order, fd.Path)
	}
	e.changes[fd.Path] = fd
}
