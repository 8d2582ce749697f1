// Command stage previews and applies file changes proposed as unified diff
// patches, typically produced by an external AI coding assistant.
//
// Usage: stage [flags] [patchfile]
//
// The patch is read from the file argument, or from stdin when piped.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muesli/termenv"

	"github.com/fwojciec/stage"
	"github.com/fwojciec/stage/difftool"
	"github.com/fwojciec/stage/godiff"
	"github.com/fwojciec/stage/jsonl"
	"github.com/fwojciec/stage/lipgloss"
	"github.com/fwojciec/stage/osfs"
	"github.com/fwojciec/stage/patch"
)

// ErrNoInput is returned when no patch input is provided.
var ErrNoInput = errors.New("no input: pipe a patch or provide a file path")

// ErrNoChanges is returned when the patch stages no changes.
var ErrNoChanges = errors.New("no changes to stage")

// ErrPartialApply is returned when some files failed to apply.
var ErrPartialApply = errors.New("some changes failed to apply")

// App encapsulates the application logic for testing.
type App struct {
	Input       io.Reader
	Output      io.Writer
	Engine      *stage.Engine
	Storage     stage.Storage
	Options     stage.PreviewOptions
	Tool        stage.DiffTool     // optional external viewer
	History     stage.HistoryStore // optional apply history
	HistoryPath string
	Apply       bool
}

// Run stages the patch, prints the preview, and optionally applies the
// pending set and records the outcome.
func (a *App) Run(ctx context.Context) error {
	data, err := io.ReadAll(a.Input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	staged, err := patch.Stage(a.Engine, a.Storage, string(data))
	if err != nil {
		return err
	}
	if len(staged) == 0 {
		return ErrNoChanges
	}

	fmt.Fprintln(a.Output, a.Engine.Preview(a.Options))

	if a.Tool != nil {
		for _, fd := range a.Engine.Diffs() {
			if err := a.Tool.Show(ctx, fd); err != nil {
				return err
			}
		}
	}

	if !a.Apply {
		stats := a.Engine.Stats()
		fmt.Fprintf(a.Output, "\n%d file(s) staged, +%d/-%d (use -apply to write)\n",
			stats.TotalFiles, stats.TotalAdditions, stats.TotalDeletions)
		return nil
	}

	diffs := a.Engine.Diffs()
	result := a.Engine.Apply()

	fmt.Fprintf(a.Output, "\napplied %d/%d file(s)\n", len(result.Applied), result.TotalAttempted)
	for _, f := range result.Failed {
		fmt.Fprintf(a.Output, "failed: %s: %s\n", f.Path, f.Err)
	}

	if a.History != nil {
		if err := a.History.Append(a.HistoryPath, historyEntries(diffs, result)); err != nil {
			return fmt.Errorf("write history: %w", err)
		}
	}

	if len(result.Failed) > 0 {
		return ErrPartialApply
	}
	return nil
}

// historyEntries converts an apply outcome into history records, one per
// attempted file, in insertion order.
func historyEntries(diffs []stage.FileDiff, result stage.ApplyResult) []stage.HistoryEntry {
	failed := make(map[string]string, len(result.Failed))
	for _, f := range result.Failed {
		failed[f.Path] = f.Err
	}

	now := time.Now().UTC()
	entries := make([]stage.HistoryEntry, 0, len(diffs))
	for _, fd := range diffs {
		e := stage.HistoryEntry{
			Time:      now,
			Path:      fd.Path,
			Change:    fd.Kind.String(),
			Additions: fd.Additions,
			Deletions: fd.Deletions,
			Status:    "ok",
		}
		if msg, ok := failed[fd.Path]; ok {
			e.Status = "failed"
			e.Error = msg
		}
		entries = append(entries, e)
	}
	return entries
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	formatFlag := flag.String("format", "unified", "preview format: unified, split or simple")
	colorFlag := flag.String("color", "auto", "colorize output: auto, always or never")
	contextFlag := flag.Int("context", stage.DefaultContextLines, "context lines around each change")
	widthFlag := flag.Int("width", stage.DefaultColumnWidth, "column width for split format")
	semanticFlag := flag.Bool("semantic", false, "use the minimal-edit diff builder instead of the positional one")
	applyFlag := flag.Bool("apply", false, "write the staged changes to disk")
	toolFlag := flag.String("tool", "", "external diff tool to run for each staged file")
	historyFlag := flag.String("history", "", "apply history file (defaults to the cache directory)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var input io.Reader = os.Stdin
	if flag.NArg() >= 1 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		input = f
	} else {
		stat, err := os.Stdin.Stat()
		if err != nil {
			return fmt.Errorf("checking stdin: %w", err)
		}
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return ErrNoInput
		}
	}

	var style stage.FormatStyle
	switch *formatFlag {
	case "unified":
		style = stage.FormatUnified
	case "split":
		style = stage.FormatSideBySide
	case "simple":
		style = stage.FormatSimple
	default:
		return fmt.Errorf("unknown format %q", *formatFlag)
	}

	var colorizer stage.Colorizer = stage.NoColor{}
	switch *colorFlag {
	case "always":
		colorizer = lipgloss.NewForcedColorizer()
	case "never":
	case "auto":
		if !termenv.EnvNoColor() && termenv.ColorProfile() != termenv.Ascii {
			colorizer = lipgloss.NewColorizer()
		}
	default:
		return fmt.Errorf("unknown color mode %q", *colorFlag)
	}

	var tool stage.DiffTool
	if *toolFlag != "" {
		t, err := difftool.NewRunner(*toolFlag)
		if err != nil {
			return err
		}
		tool = t
	}

	historyPath := *historyFlag
	if historyPath == "" {
		historyPath = osfs.DefaultHistoryPath()
	}

	storage := osfs.NewStorage()
	engineOpts := []stage.Option{stage.WithContextLines(*contextFlag)}
	if *semanticFlag {
		engineOpts = append(engineOpts, stage.WithBuilder(godiff.NewBuilder()))
	}

	app := &App{
		Input:   input,
		Output:  os.Stdout,
		Engine:  stage.NewEngine(storage, engineOpts...),
		Storage: storage,
		Options: stage.PreviewOptions{
			Style:       style,
			Colorizer:   colorizer,
			ColumnWidth: *widthFlag,
		},
		Tool:        tool,
		History:     jsonl.NewStore(),
		HistoryPath: historyPath,
		Apply:       *applyFlag,
	}
	return app.Run(ctx)
}
