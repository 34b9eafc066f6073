// Package pipeline feeds source files through the engine one unit at a
// time and hands the results to a Sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rcarmo/go-templateurls/pkg/core"
	"github.com/rcarmo/go-templateurls/pkg/core/fs"
	"github.com/rcarmo/go-templateurls/pkg/engine"
)

// StdinName is the unit name used for standard input. Its templates are
// resolved against the working directory.
const StdinName = "-"

// Result summarises a run.
type Result struct {
	Units    int
	Failed   int
	Matches  int
	Replaced int
	Skipped  int
	Errors   []error
}

// OK reports whether every unit succeeded.
func (r *Result) OK() bool {
	return r.Failed == 0
}

func (r *Result) add(s engine.Stats) {
	r.Matches += s.Matches
	r.Replaced += s.Replaced
	r.Skipped += s.Skipped
}

// Pipeline drives units from paths through an Engine into a Sink.
type Pipeline struct {
	Engine *engine.Engine
	Sink   Sink
	Logger *core.Logger
	// Exts limits which files are picked up from directories.
	Exts []string
	// Stdin is read when "-" is among the paths.
	Stdin io.Reader
}

// Run processes every file named by paths, descending into directories.
// A unit that fails is reported once and skipped; the others proceed.
func (p *Pipeline) Run(ctx context.Context, paths []string) *Result {
	res := &Result{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, err)
			res.Failed++
			return res
		}
		if path == StdinName {
			p.runStdin(ctx, res)
			continue
		}
		root, err := filepath.Abs(path)
		if err != nil {
			p.fail(res, path, err)
			continue
		}
		rootIsDir := false
		if info, err := fs.Stat(root); err == nil && info.IsDir() {
			rootIsDir = true
		}
		err = fs.WalkFiles(root, p.Exts, func(file string) error {
			rel := filepath.Base(file)
			if rootIsDir {
				if r, err := filepath.Rel(root, file); err == nil {
					rel = r
				}
			}
			p.ProcessFile(ctx, res, file, rel)
			return ctx.Err()
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			p.fail(res, path, err)
		}
	}
	return res
}

// ProcessFile reads one file, runs it through the engine and writes it to
// the sink under rel.
func (p *Pipeline) ProcessFile(ctx context.Context, res *Result, path, rel string) {
	data, err := fs.ReadFile(path)
	if err != nil {
		p.fail(res, path, err)
		return
	}
	if data == nil {
		data = []byte{}
	}
	p.process(ctx, res, &engine.Unit{Path: path, Contents: data}, rel)
}

func (p *Pipeline) runStdin(ctx context.Context, res *Result) {
	if p.Stdin == nil {
		p.fail(res, StdinName, errors.New("no standard input"))
		return
	}
	data, err := io.ReadAll(p.Stdin)
	if err != nil {
		p.fail(res, StdinName, err)
		return
	}
	wd, err := os.Getwd()
	if err != nil {
		p.fail(res, StdinName, err)
		return
	}
	p.process(ctx, res, &engine.Unit{Path: filepath.Join(wd, "stdin"), Contents: data}, "stdin")
}

func (p *Pipeline) process(ctx context.Context, res *Result, u *engine.Unit, rel string) {
	res.Units++
	stats, err := p.Engine.Process(ctx, u)
	res.add(stats)
	if err != nil {
		p.fail(res, u.Path, err)
		return
	}
	if err := p.Sink.Write(u, rel); err != nil {
		p.fail(res, u.Path, fmt.Errorf("writing output: %w", err))
	}
}

func (p *Pipeline) fail(res *Result, path string, err error) {
	res.Failed++
	res.Errors = append(res.Errors, err)
	p.Logger.Errorf("%s: %v", path, err)
}
