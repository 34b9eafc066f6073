// Package check implements the check command: a dry run that lists every
// templateUrl directive with its resolution.
package check

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rcarmo/go-templateurls/pkg/applets/runner"
	"github.com/rcarmo/go-templateurls/pkg/core"
	"github.com/rcarmo/go-templateurls/pkg/engine"
	"github.com/rcarmo/go-templateurls/pkg/pipeline"
)

// Status values printed for each directive.
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusMissing = "missing"
	StatusError   = "error"
)

// Run executes the check command with the given arguments.
//
// Output is one line per directive:
//
//	<status>\t<file>\t<value>[\t<detail>]
//
// where detail is the rewritten URL for ok, the template path for missing,
// and the skip reason or error otherwise.
// The exit status is 1 if any template is missing.
func Run(stdio *core.Stdio, args []string) int {
	missing := 0
	observe := func(ev engine.Event) {
		status, detail := classify(ev.Outcome)
		if status == StatusMissing {
			missing++
		}
		line := status + "\t" + display(ev.Unit) + "\t" + ev.Match.Group(0)
		if detail != "" {
			line += "\t" + detail
		}
		stdio.Println(line)
	}

	s, code := runner.Prepare(stdio, "check", args, func(o *engine.Options) {
		o.SkipErrors = true
		o.Observe = observe
	})
	if code != core.ExitSuccess {
		return code
	}
	defer s.Close()

	res := s.Pipeline(pipeline.DiscardSink{}).Run(context.Background(), s.Invocation.Paths)
	s.Report(res)
	if !res.OK() || missing > 0 {
		return core.ExitFailure
	}
	return core.ExitSuccess
}

func classify(o engine.Outcome) (status, detail string) {
	switch {
	case o.Kind == engine.Replaced:
		return StatusOK, o.URL
	case o.Kind == engine.Fatal:
		return StatusError, o.Err.Error()
	case o.Reason == engine.ReasonMissing:
		return StatusMissing, o.Target
	default:
		return StatusSkipped, o.Reason
	}
}

func display(path string) string {
	if wd, err := filepath.Abs("."); err == nil {
		if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}
