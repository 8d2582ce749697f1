package stage

import (
	"fmt"
	"strings"
)

// FormatStyle selects a preview renderer.
type FormatStyle int

// Preview formats.
const (
	FormatUnified FormatStyle = iota
	FormatSideBySide
	FormatSimple
)

// Colorizer styles preview fragments. Implementations may wrap fragments in
// ANSI escapes; stripping the escapes must yield the uncolored output.
type Colorizer interface {
	FileHeader(s string) string
	Added(s string) string
	Deleted(s string) string
	Context(s string) string
	HunkHeader(s string) string
}

// NoColor is the identity Colorizer.
type NoColor struct{}

func (NoColor) FileHeader(s string) string { return s }
func (NoColor) Added(s string) string      { return s }
func (NoColor) Deleted(s string) string    { return s }
func (NoColor) Context(s string) string    { return s }
func (NoColor) HunkHeader(s string) string { return s }

// NoPendingChanges is returned by Preview when the set is empty.
const NoPendingChanges = "No pending changes"

// DefaultColumnWidth is the side-by-side column width used when
// PreviewOptions leaves it unset.
const DefaultColumnWidth = 60

// PreviewOptions configures Preview.
type PreviewOptions struct {
	Style       FormatStyle
	Colorizer   Colorizer // nil renders without color
	ColumnWidth int       // side-by-side column width; DefaultColumnWidth if <= 0
}

// Preview renders every pending file with the selected formatter, in
// insertion order, joined by a blank line.
func (e *Engine) Preview(opts PreviewOptions) string {
	if !e.HasPending() {
		return NoPendingChanges
	}

	c := opts.Colorizer
	if c == nil {
		c = NoColor{}
	}
	width := opts.ColumnWidth
	if width <= 0 {
		width = DefaultColumnWidth
	}

	parts := make([]string, 0, len(e.order))
	for _, path := range e.order {
		fd := e.changes[path]
		switch opts.Style {
		case FormatSideBySide:
			parts = append(parts, formatSideBySide(*fd, c, width))
		case FormatSimple:
			parts = append(parts, formatSimple(*fd, c))
		default:
			parts = append(parts, formatUnified(*fd, c))
		}
	}
	return strings.Join(parts, "\n\n")
}

// formatUnified renders a file diff in unified format: a file header, one
// @@ marker per hunk, prefixed lines, and a change-count trailer.
func formatUnified(fd FileDiff, c Colorizer) string {
	var sb strings.Builder
	sb.WriteString(c.FileHeader(fileHeader(fd)))
	sb.WriteString("\n")

	for _, h := range fd.Hunks {
		sb.WriteString(c.HunkHeader(hunkHeader(h)))
		sb.WriteString("\n")
		for _, l := range h.Lines {
			switch l.Kind {
			case LineAdded:
				sb.WriteString(c.Added("+" + l.Text))
			case LineDeleted:
				sb.WriteString(c.Deleted("-" + l.Text))
			default:
				sb.WriteString(c.Context(" " + l.Text))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString(changeSummary(fd))
	return sb.String()
}

// formatSimple renders just the path, a change-kind tag, and the counts.
func formatSimple(fd FileDiff, c Colorizer) string {
	var tag string
	switch fd.Kind {
	case ChangeCreate:
		tag = c.Added("[NEW FILE]")
	case ChangeDelete:
		tag = c.Deleted("[DELETED]")
	default:
		tag = c.Context("[MODIFIED]")
	}
	return fmt.Sprintf("%s %s %s", c.FileHeader(fd.Path), tag, changeSummary(fd))
}

func fileHeader(fd FileDiff) string {
	switch fd.Kind {
	case ChangeCreate:
		return fmt.Sprintf("=== %s (new file) ===", fd.Path)
	case ChangeDelete:
		return fmt.Sprintf("=== %s (deleted) ===", fd.Path)
	default:
		return fmt.Sprintf("=== %s (modified) ===", fd.Path)
	}
}

func hunkHeader(h Hunk) string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}

func changeSummary(fd FileDiff) string {
	return fmt.Sprintf("+%d/-%d", fd.Additions, fd.Deletions)
}
