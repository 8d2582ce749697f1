// Package stage implements a diff preview and application engine for
// externally proposed file edits. Callers register full replacement contents
// for a set of files, inspect rendered previews and aggregate stats, and then
// commit the whole pending set to storage in one best-effort pass.
package stage

import (
	"context"
	"errors"
	"time"
)

// LineKind represents the type of a diff line.
type LineKind int

// Line kinds.
const (
	LineContext LineKind = iota
	LineAdded
	LineDeleted
)

// Line represents a single line within a hunk.
type Line struct {
	Kind       LineKind
	Text       string
	OldLineNum int // 0 if line is Added
	NewLineNum int // 0 if line is Deleted
}

// Hunk represents a contiguous block of changes within a file, including the
// unchanged context lines surrounding them.
type Hunk struct {
	OldStart int // 1-based position of the hunk's first represented old line
	OldCount int // Number of lines carrying an old line number
	NewStart int // 1-based position of the hunk's first represented new line
	NewCount int // Number of lines carrying a new line number
	Lines    []Line
}

// ChangeKind represents the type of operation pending for a file.
type ChangeKind int

// Change kinds.
const (
	ChangeModify ChangeKind = iota
	ChangeCreate
	ChangeDelete
)

// String returns the lower-case name of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeCreate:
		return "create"
	case ChangeDelete:
		return "delete"
	default:
		return "modify"
	}
}

// FileDiff represents a pending change to a single file.
// Additions and Deletions are derived from the hunks at construction time.
type FileDiff struct {
	Path       string // Absolute path of the target file
	Kind       ChangeKind
	OldContent string // Empty for created files
	NewContent string // Empty for deleted files
	Hunks      []Hunk
	Additions  int
	Deletions  int
}

// Stats aggregates the pending change set.
type Stats struct {
	TotalFiles     int
	FilesCreated   int
	FilesModified  int
	FilesDeleted   int
	TotalAdditions int
	TotalDeletions int
}

// FileError records a single failed storage operation during Apply.
type FileError struct {
	Path string
	Err  string
}

// ApplyResult reports the outcome of applying a pending change set.
// Applied and Failed preserve insertion order.
type ApplyResult struct {
	Applied        []string
	Failed         []FileError
	TotalAttempted int
}

// ErrNotFound is returned when a deletion is registered for a path that does
// not exist in storage.
var ErrNotFound = errors.New("file not found")

// Storage provides the filesystem operations the engine needs. Contents are
// treated as UTF-8 text with line-feed separators.
type Storage interface {
	// Exists reports whether a file exists at path.
	Exists(path string) bool
	// ReadFile returns the full content of the file at path.
	ReadFile(path string) (string, error)
	// WriteFile replaces the file's content, creating parent directories as
	// needed.
	WriteFile(path string, content string) error
	// RemoveFile deletes the file at path.
	RemoveFile(path string) error
}

// DiffBuilder converts a pair of file contents into an ordered sequence of
// hunks. Implementations must be pure: well-formed string inputs, including
// empty ones, never fail.
type DiffBuilder interface {
	Build(oldContent, newContent string, contextLines int) []Hunk
}

// DiffTool displays a single pending change through an external viewer.
// Implementations shell out and surface a non-zero exit as an error.
type DiffTool interface {
	Show(ctx context.Context, diff FileDiff) error
}

// HistoryEntry records the outcome of one applied file change.
type HistoryEntry struct {
	Time      time.Time `json:"time"`
	Path      string    `json:"path"`
	Change    string    `json:"change"`
	Additions int       `json:"additions"`
	Deletions int       `json:"deletions"`
	Status    string    `json:"status"` // "ok" or "failed"
	Error     string    `json:"error,omitempty"`
}

// HistoryStore persists apply outcomes.
type HistoryStore interface {
	// Append adds entries to the history file at path.
	Append(path string, entries []HistoryEntry) error
	// Load reads all entries from the history file at path.
	Load(path string) ([]HistoryEntry, error)
}
