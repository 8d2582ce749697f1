// Package patch stages pending changes from unified diff patches using
// bluekeyes/go-gitdiff. External assistants commonly hand back patches rather
// than whole files; this package turns each patched file into the full
// replacement content the engine expects.
package patch

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/fwojciec/stage"
)

// Stage parses patchText and registers every file it touches with the
// engine. Current contents are read through storage and the patch fragments
// are applied to produce full replacement contents. Returns the staged
// absolute paths in patch order.
func Stage(engine *stage.Engine, storage stage.Storage, patchText string) ([]string, error) {
	files, _, err := gitdiff.Parse(strings.NewReader(patchText))
	if err != nil {
		return nil, fmt.Errorf("parse patch: %w", err)
	}

	var staged []string
	for _, f := range files {
		path := f.NewName
		if path == "" {
			path = f.OldName
		}
		if path == "" {
			continue
		}
		if f.IsBinary {
			return staged, fmt.Errorf("%s: binary patches are not supported", path)
		}

		if f.IsDelete {
			fd, err := engine.AddDeletion(f.OldName)
			if err != nil {
				return staged, err
			}
			staged = append(staged, fd.Path)
			continue
		}

		old := ""
		if !f.IsNew && storage.Exists(path) {
			old, err = storage.ReadFile(path)
			if err != nil {
				return staged, fmt.Errorf("read %s: %w", path, err)
			}
		}

		content, err := applyFile(old, f)
		if err != nil {
			return staged, fmt.Errorf("apply patch to %s: %w", path, err)
		}

		kind := stage.ChangeModify
		if f.IsNew {
			kind = stage.ChangeCreate
		}
		fd, err := engine.AddChange(path, content, kind)
		if err != nil {
			return staged, err
		}
		staged = append(staged, fd.Path)
	}

	return staged, nil
}

func applyFile(old string, f *gitdiff.File) (string, error) {
	var out bytes.Buffer
	if err := gitdiff.Apply(&out, strings.NewReader(old), f); err != nil {
		return "", err
	}
	return out.String(), nil
}
