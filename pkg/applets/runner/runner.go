// Package runner holds the setup shared by the templateurls commands:
// argument parsing, logging, sandboxing and engine construction.
package runner

import (
	"os"
	"path/filepath"

	"github.com/rcarmo/go-templateurls/pkg/config"
	"github.com/rcarmo/go-templateurls/pkg/core"
	"github.com/rcarmo/go-templateurls/pkg/dialect/angular"
	"github.com/rcarmo/go-templateurls/pkg/engine"
	"github.com/rcarmo/go-templateurls/pkg/pipeline"
	"github.com/rcarmo/go-templateurls/pkg/sandbox"
)

// Session is a configured engine ready to process one command's inputs.
type Session struct {
	Invocation *config.Invocation
	Logger     *core.Logger
	Engine     *engine.Engine

	stdio     *core.Stdio
	sandboxed bool
}

// Prepare parses args and builds the engine. extra, when non-nil, adjusts
// the engine options before the configuration is frozen. On failure the
// problem has already been reported and the exit code is returned.
func Prepare(stdio *core.Stdio, command string, args []string, extra func(*engine.Options)) (*Session, int) {
	inv, code := config.ParseArgs(stdio, command, args)
	if code != core.ExitSuccess {
		return nil, code
	}
	logger := core.NewLogger(stdio, engine.PluginName, inv.Debug)
	if inv.ConfigFile != "" {
		logger.Debugf("config file: %s", inv.ConfigFile)
	}

	s := &Session{Invocation: inv, Logger: logger, stdio: stdio}
	if inv.Sandbox {
		if err := sandbox.Init(sandboxConfig(inv)); err != nil {
			return nil, core.FileError(stdio, command, "sandbox", err)
		}
		s.sandboxed = true
	}

	cfg, err := inv.Build(logger, extra)
	if err != nil {
		s.Close()
		return nil, core.UsageError(stdio, command, err.Error())
	}
	eng, err := engine.New(cfg, angular.New())
	if err != nil {
		s.Close()
		return nil, core.UsageError(stdio, command, err.Error())
	}
	s.Engine = eng
	return s, core.ExitSuccess
}

// Close releases process-wide state the session set up.
func (s *Session) Close() {
	if s != nil && s.sandboxed {
		sandbox.Disable()
		s.sandboxed = false
	}
}

// Sink picks the output destination from the options: the output
// directory, the source files themselves, or stdout.
func (s *Session) Sink() pipeline.Sink {
	switch {
	case s.Invocation.OutDir != "":
		return pipeline.DirSink{Root: s.Invocation.OutDir}
	case s.Invocation.InPlace:
		return pipeline.InPlaceSink{}
	default:
		return pipeline.WriterSink{W: s.stdio.Out}
	}
}

// Pipeline returns a pipeline over the session's engine writing to sink.
func (s *Session) Pipeline(sink pipeline.Sink) *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Engine: s.Engine,
		Sink:   sink,
		Logger: s.Logger,
		Exts:   s.Invocation.Exts(),
		Stdin:  s.stdio.In,
	}
}

// Report logs the run totals in debug mode.
func (s *Session) Report(res *pipeline.Result) {
	s.Logger.Debugf("units: %d, failed: %d, matches: %d, replaced: %d, skipped: %d",
		res.Units, res.Failed, res.Matches, res.Replaced, res.Skipped)
}

// sandboxConfig grants read access to the base path and the inputs, and
// write access to wherever output goes.
func sandboxConfig(inv *config.Invocation) sandbox.Config {
	cfg := sandbox.Config{ReadPaths: []string{inv.BasePath}}
	for _, p := range inv.Paths {
		if p == pipeline.StdinName {
			continue
		}
		if inv.InPlace {
			cfg.WritePaths = append(cfg.WritePaths, writableRoot(p))
		} else {
			cfg.ReadPaths = append(cfg.ReadPaths, p)
		}
	}
	if inv.OutDir != "" {
		cfg.WritePaths = append(cfg.WritePaths, inv.OutDir)
	}
	return cfg
}

// writableRoot returns p for directories and the containing directory
// for files, so in-place writes of a single file stay inside the rule.
func writableRoot(p string) string {
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return filepath.Dir(p)
	}
	return p
}
