// Package lipgloss provides a Colorizer implementation using the Lipgloss
// styling library.
package lipgloss

import (
	"os"

	lip "github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/fwojciec/stage"
)

// Compile-time interface verification.
var _ stage.Colorizer = (*Colorizer)(nil)

// Colorizer styles preview fragments with ANSI colors: cyan file headers,
// green additions, red deletions, magenta hunk markers. Context lines are
// left unstyled.
type Colorizer struct {
	fileHeader lip.Style
	added      lip.Style
	deleted    lip.Style
	hunkHeader lip.Style
}

// NewColorizer creates a colorizer using the default renderer, which degrades
// to plain text when the output doesn't support color.
func NewColorizer() *Colorizer {
	return newColorizer(lip.DefaultRenderer())
}

// NewForcedColorizer creates a colorizer that emits ANSI colors regardless of
// terminal detection.
func NewForcedColorizer() *Colorizer {
	r := lip.NewRenderer(os.Stdout)
	r.SetColorProfile(termenv.ANSI)
	return newColorizer(r)
}

func newColorizer(r *lip.Renderer) *Colorizer {
	return &Colorizer{
		fileHeader: r.NewStyle().Foreground(lip.Color("6")),
		added:      r.NewStyle().Foreground(lip.Color("2")),
		deleted:    r.NewStyle().Foreground(lip.Color("1")),
		hunkHeader: r.NewStyle().Foreground(lip.Color("5")),
	}
}

// FileHeader styles a per-file header line.
func (c *Colorizer) FileHeader(s string) string { return c.fileHeader.Render(s) }

// Added styles an added line.
func (c *Colorizer) Added(s string) string { return c.added.Render(s) }

// Deleted styles a deleted line.
func (c *Colorizer) Deleted(s string) string { return c.deleted.Render(s) }

// Context returns context lines unstyled.
func (c *Colorizer) Context(s string) string { return s }

// HunkHeader styles an @@ hunk marker.
func (c *Colorizer) HunkHeader(s string) string { return c.hunkHeader.Render(s) }
