package stage

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatSideBySide renders a file diff as a fixed-width two-column table.
// Deleted lines fill the left column, added lines the right, and context
// lines appear identically in both. Cells wider than width-2 are cut to
// width-3 and ellipsized. Widths are display widths, not byte counts.
func formatSideBySide(fd FileDiff, c Colorizer, width int) string {
	var sb strings.Builder
	sb.WriteString(c.FileHeader(fileHeader(fd)))
	sb.WriteString("\n")

	for _, h := range fd.Hunks {
		sb.WriteString(c.HunkHeader(hunkHeader(h)))
		sb.WriteString("\n")
		for _, l := range h.Lines {
			switch l.Kind {
			case LineAdded:
				sb.WriteString(padCell("", width))
				sb.WriteString(" | ")
				sb.WriteString(c.Added(padCell(truncateCell(l.Text, width), width)))
			case LineDeleted:
				sb.WriteString(c.Deleted(padCell(truncateCell(l.Text, width), width)))
				sb.WriteString(" | ")
				sb.WriteString(padCell("", width))
			default:
				cell := padCell(truncateCell(l.Text, width), width)
				sb.WriteString(c.Context(cell))
				sb.WriteString(" | ")
				sb.WriteString(c.Context(cell))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString(changeSummary(fd))
	return sb.String()
}

func truncateCell(s string, width int) string {
	if runewidth.StringWidth(s) > width-2 {
		return runewidth.Truncate(s, width-3, "") + "..."
	}
	return s
}

func padCell(s string, width int) string {
	return runewidth.FillRight(s, width)
}
