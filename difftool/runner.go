// Package difftool shells out to an external diff viewer.
package difftool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fwojciec/stage"
)

// Compile-time interface verification.
var _ stage.DiffTool = (*Runner)(nil)

// Runner exports a pending change to temporary files and runs an external
// command with the two paths appended as its final arguments.
type Runner struct {
	Stdout io.Writer // defaults to os.Stdout
	Stderr io.Writer // defaults to os.Stderr

	command string
	args    []string
}

// NewRunner creates a runner from a command line such as
// "git diff --no-index" or "vimdiff".
func NewRunner(commandLine string) (*Runner, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, errors.New("difftool: empty command")
	}
	return &Runner{command: fields[0], args: fields[1:]}, nil
}

// Show writes the old and new contents of diff to temporary files and waits
// for the external tool to exit. A non-zero exit status is returned as an
// error.
func (r *Runner) Show(ctx context.Context, diff stage.FileDiff) error {
	dir, err := os.MkdirTemp("", "stage-difftool-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	base := filepath.Base(diff.Path)
	oldPath := filepath.Join(dir, "old-"+base)
	newPath := filepath.Join(dir, "new-"+base)
	if err := os.WriteFile(oldPath, []byte(diff.OldContent), 0o600); err != nil {
		return err
	}
	if err := os.WriteFile(newPath, []byte(diff.NewContent), 0o600); err != nil {
		return err
	}

	args := append(append([]string(nil), r.args...), oldPath, newPath)
	cmd := exec.CommandContext(ctx, r.command, args...)
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("difftool %s exited with status %d", r.command, exitErr.ExitCode())
		}
		return fmt.Errorf("difftool %s: %w", r.command, err)
	}
	return nil
}
