package stage

import "strings"

// DefaultContextLines is the number of unchanged lines kept around each
// change when no explicit value is configured.
const DefaultContextLines = 3

// positionalBuilder is the default DiffBuilder. See BuildDiff.
type positionalBuilder struct{}

func (positionalBuilder) Build(oldContent, newContent string, contextLines int) []Hunk {
	return BuildDiff(oldContent, newContent, contextLines)
}

// BuildDiff compares old and new content line by line at the same index and
// groups the differences into hunks with up to contextLines of unchanged
// lines before each change. A hunk closes once the run of trailing context
// reaches twice contextLines.
//
// The comparison is positional, not a minimal edit set: a single inserted or
// deleted line shifts every later index, so the remainder of the file shows
// up as rewritten. Callers that want minimal diffs can swap in a different
// DiffBuilder (see the godiff package).
func BuildDiff(oldContent, newContent string, contextLines int) []Hunk {
	if contextLines < 0 {
		contextLines = 0
	}
	oldLines := splitLines(oldContent)
	newLines := splitLines(newContent)

	total := len(oldLines)
	if len(newLines) > total {
		total = len(newLines)
	}

	var hunks []Hunk
	var cur *Hunk
	trailing := 0

	for i := 0; i < total; i++ {
		inOld := i < len(oldLines)
		inNew := i < len(newLines)

		if inOld && inNew && oldLines[i] == newLines[i] {
			if cur == nil {
				continue
			}
			if contextLines == 0 {
				hunks = append(hunks, finalizeHunk(cur))
				cur = nil
				continue
			}
			cur.Lines = append(cur.Lines, Line{
				Kind:       LineContext,
				Text:       oldLines[i],
				OldLineNum: i + 1,
				NewLineNum: i + 1,
			})
			trailing++
			if trailing >= 2*contextLines {
				hunks = append(hunks, finalizeHunk(cur))
				cur = nil
			}
			continue
		}

		if cur == nil {
			start := i - contextLines
			if start < 0 {
				start = 0
			}
			cur = &Hunk{OldStart: start + 1, NewStart: start + 1}
			// Positions before the first difference are equal at the same
			// index, so the backfilled context exists on both sides.
			for j := start; j < i; j++ {
				cur.Lines = append(cur.Lines, Line{
					Kind:       LineContext,
					Text:       oldLines[j],
					OldLineNum: j + 1,
					NewLineNum: j + 1,
				})
			}
		}
		trailing = 0

		if inOld {
			cur.Lines = append(cur.Lines, Line{
				Kind:       LineDeleted,
				Text:       oldLines[i],
				OldLineNum: i + 1,
			})
		}
		if inNew {
			cur.Lines = append(cur.Lines, Line{
				Kind:       LineAdded,
				Text:       newLines[i],
				NewLineNum: i + 1,
			})
		}
	}

	if cur != nil {
		hunks = append(hunks, finalizeHunk(cur))
	}
	return hunks
}

// NewFileDiff assembles a FileDiff, deriving the addition and deletion counts
// from the hunks.
func NewFileDiff(path string, kind ChangeKind, oldContent, newContent string, hunks []Hunk) FileDiff {
	fd := FileDiff{
		Path:       path,
		Kind:       kind,
		OldContent: oldContent,
		NewContent: newContent,
		Hunks:      hunks,
	}
	for _, h := range hunks {
		for _, l := range h.Lines {
			switch l.Kind {
			case LineAdded:
				fd.Additions++
			case LineDeleted:
				fd.Deletions++
			}
		}
	}
	return fd
}

// GroupHunks groups an ordered, fully numbered sequence of diff lines into
// hunks, keeping contextLines of unchanged lines around each change and
// splitting when the gap between changes exceeds twice contextLines.
// Alternative diff builders produce flat line sequences and use this to meet
// the Hunk contract.
func GroupHunks(lines []Line, contextLines int) []Hunk {
	if contextLines < 0 {
		contextLines = 0
	}
	var changes []int
	for i, l := range lines {
		if l.Kind != LineContext {
			changes = append(changes, i)
		}
	}
	if len(changes) == 0 {
		return nil
	}

	var hunks []Hunk
	start := changes[0] - contextLines
	if start < 0 {
		start = 0
	}
	prev := changes[0]
	for _, ci := range changes[1:] {
		if ci-prev-1 > 2*contextLines {
			hunks = append(hunks, makeHunk(lines[start:prev+contextLines+1]))
			start = ci - contextLines
		}
		prev = ci
	}
	end := prev + contextLines + 1
	if end > len(lines) {
		end = len(lines)
	}
	hunks = append(hunks, makeHunk(lines[start:end]))
	return hunks
}

// splitLines splits content on line feeds. Empty content has no lines, so an
// empty old side diffs as pure additions and an empty new side as pure
// deletions.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func finalizeHunk(h *Hunk) Hunk {
	for _, l := range h.Lines {
		if l.OldLineNum > 0 {
			h.OldCount++
		}
		if l.NewLineNum > 0 {
			h.NewCount++
		}
	}
	return *h
}

func makeHunk(lines []Line) Hunk {
	h := Hunk{Lines: append([]Line(nil), lines...)}
	for _, l := range h.Lines {
		if l.OldLineNum > 0 {
			if h.OldStart == 0 {
				h.OldStart = l.OldLineNum
			}
			h.OldCount++
		}
		if l.NewLineNum > 0 {
			if h.NewStart == 0 {
				h.NewStart = l.NewLineNum
			}
			h.NewCount++
		}
	}
	// Hunks holding only additions or only deletions anchor the missing side
	// to the other one.
	if h.OldStart == 0 {
		h.OldStart = h.NewStart
	}
	if h.NewStart == 0 {
		h.NewStart = h.OldStart
	}
	return h
}
