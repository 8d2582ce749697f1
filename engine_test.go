package stage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/stage"
	"github.com/fwojciec/stage/mock"
	"github.com/fwojciec/stage/osfs"
)

func TestEngine_AddChange_ModifyReadsExistingContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc"), 0o644))

	e := stage.NewEngine(osfs.NewStorage())
	fd, err := e.AddChange(path, "a\nX\nc", stage.ChangeModify)

	require.NoError(t, err)
	assert.Equal(t, path, fd.Path)
	assert.Equal(t, stage.ChangeModify, fd.Kind)
	assert.Equal(t, "a\nb\nc", fd.OldContent)
	assert.Equal(t, "a\nX\nc", fd.NewContent)
	assert.Equal(t, 1, fd.Additions)
	assert.Equal(t, 1, fd.Deletions)
	require.Len(t, fd.Hunks, 1)
}

func TestEngine_AddChange_ModifyMissingFileHasEmptyOldContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "missing.txt")

	e := stage.NewEngine(osfs.NewStorage())
	fd, err := e.AddChange(path, "hello", stage.ChangeModify)

	require.NoError(t, err)
	assert.Equal(t, "", fd.OldContent)
	assert.Equal(t, 1, fd.Additions)
	assert.Equal(t, 0, fd.Deletions)
}

func TestEngine_AddChange_Create(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "new.txt")

	e := stage.NewEngine(osfs.NewStorage())
	fd, err := e.AddChange(path, "hello\nworld", stage.ChangeCreate)

	require.NoError(t, err)
	assert.Equal(t, stage.ChangeCreate, fd.Kind)
	assert.Equal(t, "", fd.OldContent)
	assert.Equal(t, 2, fd.Additions)
	assert.True(t, e.HasPending())
}

func TestEngine_AddDeletion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doomed.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\ny"), 0o644))

	e := stage.NewEngine(osfs.NewStorage())
	fd, err := e.AddDeletion(path)

	require.NoError(t, err)
	assert.Equal(t, stage.ChangeDelete, fd.Kind)
	assert.Equal(t, "x\ny", fd.OldContent)
	assert.Equal(t, "", fd.NewContent)
	assert.Equal(t, 0, fd.Additions)
	assert.Equal(t, 2, fd.Deletions)
}

func TestEngine_AddDeletion_MissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	e := stage.NewEngine(osfs.NewStorage())
	_, err := e.AddDeletion(filepath.Join(dir, "nope.txt"))

	require.Error(t, err)
	assert.ErrorIs(t, err, stage.ErrNotFound)
	assert.False(t, e.HasPending())
}

func TestEngine_Reregistration_ReplacesKeepingPosition(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")

	e := stage.NewEngine(osfs.NewStorage())
	_, err := e.AddChange(first, "v1", stage.ChangeCreate)
	require.NoError(t, err)
	_, err = e.AddChange(second, "other", stage.ChangeCreate)
	require.NoError(t, err)
	_, err = e.AddChange(first, "v2", stage.ChangeCreate)
	require.NoError(t, err)

	assert.Equal(t, []string{first, second}, e.PendingFiles())

	fd, ok := e.Diff(first)
	require.True(t, ok)
	assert.Equal(t, "v2", fd.NewContent)
}

func TestEngine_Discard(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")

	e := stage.NewEngine(osfs.NewStorage())
	_, err := e.AddChange(path, "content", stage.ChangeCreate)
	require.NoError(t, err)

	e.Discard()

	assert.False(t, e.HasPending())
	assert.Empty(t, e.PendingFiles())
	assert.NoFileExists(t, path)
}

func TestEngine_Apply_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	created := filepath.Join(dir, "sub", "deep", "new.txt") // parent dirs missing
	modified := filepath.Join(dir, "mod.txt")
	deleted := filepath.Join(dir, "del.txt")
	require.NoError(t, os.WriteFile(modified, []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(deleted, []byte("bye"), 0o644))

	e := stage.NewEngine(osfs.NewStorage())
	_, err := e.AddChange(created, "hello", stage.ChangeCreate)
	require.NoError(t, err)
	_, err = e.AddChange(modified, "new content", stage.ChangeModify)
	require.NoError(t, err)
	_, err = e.AddDeletion(deleted)
	require.NoError(t, err)

	result := e.Apply()

	assert.Equal(t, 3, result.TotalAttempted)
	assert.Equal(t, []string{created, modified, deleted}, result.Applied)
	assert.Empty(t, result.Failed)
	assert.False(t, e.HasPending())

	data, err := os.ReadFile(created)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	data, err = os.ReadFile(modified)
	require.NoError(t, err)
	assert.Equal(t, "new content", string(data))

	assert.NoFileExists(t, deleted)
}

func TestEngine_Apply_PartialFailureContinues(t *testing.T) {
	t.Parallel()

	written := make(map[string]string)
	storage := &mock.Storage{
		ExistsFn:   func(string) bool { return false },
		ReadFileFn: func(string) (string, error) { return "", os.ErrNotExist },
		WriteFileFn: func(path, content string) error {
			if filepath.Base(path) == "two.txt" {
				return errors.New("disk full")
			}
			written[path] = content
			return nil
		},
		RemoveFileFn: func(string) error { return nil },
	}

	e := stage.NewEngine(storage)
	one, err := e.AddChange("/tmp/stage-test/one.txt", "1", stage.ChangeCreate)
	require.NoError(t, err)
	two, err := e.AddChange("/tmp/stage-test/two.txt", "2", stage.ChangeCreate)
	require.NoError(t, err)
	three, err := e.AddChange("/tmp/stage-test/three.txt", "3", stage.ChangeCreate)
	require.NoError(t, err)

	result := e.Apply()

	assert.Equal(t, 3, result.TotalAttempted)
	assert.Equal(t, []string{one.Path, three.Path}, result.Applied)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, two.Path, result.Failed[0].Path)
	assert.Equal(t, "disk full", result.Failed[0].Err)

	// The set is cleared even after a partial failure.
	assert.False(t, e.HasPending())
	assert.Len(t, written, 2)
}

func TestEngine_Stats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	modified := filepath.Join(dir, "mod.txt")
	deleted := filepath.Join(dir, "del.txt")
	require.NoError(t, os.WriteFile(modified, []byte("a\nb\nc"), 0o644))
	require.NoError(t, os.WriteFile(deleted, []byte("x\ny"), 0o644))

	e := stage.NewEngine(osfs.NewStorage())
	_, err := e.AddChange(filepath.Join(dir, "new.txt"), "one\ntwo", stage.ChangeCreate)
	require.NoError(t, err)
	_, err = e.AddChange(modified, "a\nX\nc", stage.ChangeModify)
	require.NoError(t, err)
	_, err = e.AddDeletion(deleted)
	require.NoError(t, err)

	stats := e.Stats()

	assert.Equal(t, 3, stats.TotalFiles)
	assert.Equal(t, 1, stats.FilesCreated)
	assert.Equal(t, 1, stats.FilesModified)
	assert.Equal(t, 1, stats.FilesDeleted)
	assert.Equal(t, 3, stats.TotalAdditions) // 2 created + 1 modified
	assert.Equal(t, 3, stats.TotalDeletions) // 1 modified + 2 deleted
}

func TestEngine_WithBuilder_ReplacesDiffConstruction(t *testing.T) {
	t.Parallel()

	var gotOld, gotNew string
	builder := &mock.DiffBuilder{
		BuildFn: func(oldContent, newContent string, contextLines int) []stage.Hunk {
			gotOld, gotNew = oldContent, newContent
			assert.Equal(t, 5, contextLines)
			return nil
		},
	}

	dir := t.TempDir()
	e := stage.NewEngine(osfs.NewStorage(), stage.WithBuilder(builder), stage.WithContextLines(5))
	_, err := e.AddChange(filepath.Join(dir, "f.txt"), "content", stage.ChangeCreate)

	require.NoError(t, err)
	assert.Equal(t, "", gotOld)
	assert.Equal(t, "content", gotNew)
}
