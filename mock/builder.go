package mock

import (
	"github.com/fwojciec/stage"
)

// Compile-time interface verification.
var _ stage.DiffBuilder = (*DiffBuilder)(nil)

// DiffBuilder is a mock implementation of stage.DiffBuilder.
type DiffBuilder struct {
	BuildFn func(oldContent, newContent string, contextLines int) []stage.Hunk
}

func (b *DiffBuilder) Build(oldContent, newContent string, contextLines int) []stage.Hunk {
	return b.BuildFn(oldContent, newContent, contextLines)
}
