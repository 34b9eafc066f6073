// Package resolve implements the resolve command, which rewrites
// templateUrl references in source files into site-absolute URLs.
package resolve

import (
	"context"

	"github.com/rcarmo/go-templateurls/pkg/applets/runner"
	"github.com/rcarmo/go-templateurls/pkg/core"
)

// Run executes the resolve command with the given arguments.
func Run(stdio *core.Stdio, args []string) int {
	return RunContext(context.Background(), stdio, args)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, stdio *core.Stdio, args []string) int {
	s, code := runner.Prepare(stdio, "resolve", args, nil)
	if code != core.ExitSuccess {
		return code
	}
	defer s.Close()

	res := s.Pipeline(s.Sink()).Run(ctx, s.Invocation.Paths)
	s.Report(res)
	if !res.OK() {
		return core.ExitFailure
	}
	return core.ExitSuccess
}
