//go:build !js && !wasm && !wasip1

// Package watch implements the watch command: resolve everything once,
// then re-resolve source files into the output directory as they change.
package watch

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rcarmo/go-templateurls/pkg/applets/runner"
	"github.com/rcarmo/go-templateurls/pkg/core"
	"github.com/rcarmo/go-templateurls/pkg/pipeline"
	fswatch "github.com/rcarmo/go-templateurls/pkg/watch"
)

// Run executes the watch command until SIGINT or SIGTERM.
func Run(stdio *core.Stdio, args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunContext(ctx, stdio, args)
}

// RunContext executes the watch command until ctx is done.
func RunContext(ctx context.Context, stdio *core.Stdio, args []string) int {
	s, code := runner.Prepare(stdio, "watch", args, nil)
	if code != core.ExitSuccess {
		return code
	}
	defer s.Close()

	inv := s.Invocation
	if inv.OutDir == "" {
		return core.UsageError(stdio, "watch", "--out-dir is required")
	}
	outDir, err := filepath.Abs(inv.OutDir)
	if err != nil {
		return core.FileError(stdio, "watch", inv.OutDir, err)
	}
	roots := make([]string, 0, len(inv.Paths))
	for _, p := range inv.Paths {
		if p == pipeline.StdinName {
			return core.UsageError(stdio, "watch", "cannot watch standard input")
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return core.FileError(stdio, "watch", p, err)
		}
		roots = append(roots, abs)
	}

	p := s.Pipeline(pipeline.DirSink{Root: outDir})
	res := p.Run(ctx, roots)
	s.Report(res)

	w, err := fswatch.New(inv.DebounceDelay(), inv.Exts(), s.Logger)
	if err != nil {
		return core.FileError(stdio, "watch", "fsnotify", err)
	}
	defer w.Close()
	for _, root := range roots {
		if err := w.AddRecursive(root); err != nil {
			return core.FileError(stdio, "watch", root, err)
		}
	}
	s.Logger.Infof("watching %s", strings.Join(roots, ", "))

	err = w.Run(ctx, func(path string) {
		if within(path, outDir) {
			return
		}
		rel, ok := relTo(roots, path)
		if !ok {
			return
		}
		res := &pipeline.Result{}
		p.ProcessFile(ctx, res, path, rel)
		if res.OK() {
			s.Logger.Debugf("updated %s (replaced %d, skipped %d)", rel, res.Replaced, res.Skipped)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		stdio.Errorf("watch: %v\n", err)
		return core.ExitFailure
	}
	return core.ExitSuccess
}

// relTo returns path relative to the first root containing it. A root
// that is a file maps to its base name, as in the initial run.
func relTo(roots []string, path string) (string, bool) {
	for _, root := range roots {
		if path == root {
			return filepath.Base(path), true
		}
		if within(path, root) {
			rel, err := filepath.Rel(root, path)
			if err == nil {
				return rel, true
			}
		}
	}
	return "", false
}

func within(path, root string) bool {
	return path == root || strings.HasPrefix(path, root+string(filepath.Separator))
}
