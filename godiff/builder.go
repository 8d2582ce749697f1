// Package godiff provides a minimal-edit-distance diff builder backed by
// sergi/go-diff. It produces the same hunk structures as the default
// positional builder and can be swapped in via stage.WithBuilder.
package godiff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/fwojciec/stage"
)

// Compile-time interface verification.
var _ stage.DiffBuilder = (*Builder)(nil)

// Builder computes line-level diffs using diff-match-patch.
type Builder struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{dmp: diffmatchpatch.New()}
}

// Build computes a minimal line-level diff between the two contents and
// groups it into hunks with contextLines of surrounding context.
func (b *Builder) Build(oldContent, newContent string, contextLines int) []stage.Hunk {
	if oldContent == newContent {
		return nil
	}

	oldChars, newChars, lineArray := b.dmp.DiffLinesToChars(oldContent, newContent)
	diffs := b.dmp.DiffMain(oldChars, newChars, false)
	diffs = b.dmp.DiffCharsToLines(diffs, lineArray)

	var lines []stage.Line
	oldNum, newNum := 1, 1
	for _, d := range diffs {
		for _, text := range splitFragment(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				lines = append(lines, stage.Line{
					Kind:       stage.LineDeleted,
					Text:       text,
					OldLineNum: oldNum,
				})
				oldNum++
			case diffmatchpatch.DiffInsert:
				lines = append(lines, stage.Line{
					Kind:       stage.LineAdded,
					Text:       text,
					NewLineNum: newNum,
				})
				newNum++
			default:
				lines = append(lines, stage.Line{
					Kind:       stage.LineContext,
					Text:       text,
					OldLineNum: oldNum,
					NewLineNum: newNum,
				})
				oldNum++
				newNum++
			}
		}
	}

	return stage.GroupHunks(lines, contextLines)
}

// splitFragment splits a diff fragment into lines, dropping the empty
// element a trailing newline produces.
func splitFragment(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
