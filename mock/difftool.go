package mock

import (
	"context"

	"github.com/fwojciec/stage"
)

// Compile-time interface verification.
var _ stage.DiffTool = (*DiffTool)(nil)

// DiffTool is a mock implementation of stage.DiffTool.
type DiffTool struct {
	ShowFn func(ctx context.Context, diff stage.FileDiff) error
}

func (t *DiffTool) Show(ctx context.Context, diff stage.FileDiff) error {
	return t.ShowFn(ctx, diff)
}
