package difftool_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/stage"
	"github.com/fwojciec/stage/difftool"
)

func TestNewRunner_EmptyCommand(t *testing.T) {
	t.Parallel()

	_, err := difftool.NewRunner("")

	assert.Error(t, err)
}

func TestRunner_Show_PassesTempFilesToTool(t *testing.T) {
	t.Parallel()

	r, err := difftool.NewRunner("cat")
	require.NoError(t, err)

	var out bytes.Buffer
	r.Stdout = &out
	r.Stderr = &out

	diff := stage.FileDiff{
		Path:       "/work/file.txt",
		Kind:       stage.ChangeModify,
		OldContent: "old\n",
		NewContent: "new\n",
	}

	require.NoError(t, r.Show(context.Background(), diff))
	assert.Equal(t, "old\nnew\n", out.String())
}

func TestRunner_Show_NonZeroExit(t *testing.T) {
	t.Parallel()

	r, err := difftool.NewRunner("false")
	require.NoError(t, err)

	err = r.Show(context.Background(), stage.FileDiff{Path: "/work/file.txt"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with status")
}

func TestRunner_Show_MissingTool(t *testing.T) {
	t.Parallel()

	r, err := difftool.NewRunner("definitely-not-a-real-tool-xyz")
	require.NoError(t, err)

	err = r.Show(context.Background(), stage.FileDiff{Path: "/work/file.txt"})

	assert.Error(t, err)
}
