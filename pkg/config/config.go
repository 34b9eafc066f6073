// Package config turns command-line arguments and optional config files
// into the immutable engine configuration.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rcarmo/go-templateurls/pkg/core"
	"github.com/rcarmo/go-templateurls/pkg/core/timeutil"
	"github.com/rcarmo/go-templateurls/pkg/engine"
	"github.com/rcarmo/go-templateurls/pkg/urltransform"
)

// DefaultExtensions are the source extensions scanned in directories.
var DefaultExtensions = []string{".js", ".ts"}

// Options holds every recognised setting. Field tags name the keys used in
// TOML and YAML config files.
type Options struct {
	BasePath      string   `toml:"base_path" yaml:"base_path"`
	TransformURL  string   `toml:"transform_url" yaml:"transform_url"`
	SkipFiles     string   `toml:"skip_files" yaml:"skip_files"`
	SkipTemplates string   `toml:"skip_templates" yaml:"skip_templates"`
	SkipErrors    bool     `toml:"skip_errors" yaml:"skip_errors"`
	SkipRemote    bool     `toml:"skip_remote" yaml:"skip_remote"`
	Debug         bool     `toml:"debug" yaml:"debug"`
	OutDir        string   `toml:"out_dir" yaml:"out_dir"`
	InPlace       bool     `toml:"in_place" yaml:"in_place"`
	Extensions    []string `toml:"extensions" yaml:"extensions"`
	Sandbox       bool     `toml:"sandbox" yaml:"sandbox"`
	Debounce      string   `toml:"debounce" yaml:"debounce"`
}

// Validate checks option combinations that do not depend on the engine.
func (o *Options) Validate() error {
	if o.BasePath == "" {
		return engine.ErrNoBasePath
	}
	if o.InPlace && o.OutDir != "" {
		return fmt.Errorf("--in-place and --out-dir are mutually exclusive")
	}
	if o.Debounce != "" {
		if _, err := timeutil.ParseDuration(o.Debounce); err != nil {
			return fmt.Errorf("debounce: %w", err)
		}
	}
	return nil
}

// DebounceDelay returns the configured watch delay, or 0 for the default.
func (o *Options) DebounceDelay() time.Duration {
	d, _ := timeutil.ParseDuration(o.Debounce)
	return d
}

// Exts returns the configured extensions or the defaults.
func (o *Options) Exts() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}

// Build validates o and returns the engine configuration. extra is applied
// on top of the values derived from o, for callers that need hooks such as
// an observer.
func (o *Options) Build(logger *core.Logger, extra func(*engine.Options)) (*engine.Config, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	transform, err := urltransform.AWK(o.TransformURL)
	if err != nil {
		return nil, err
	}
	base, err := filepath.Abs(o.BasePath)
	if err != nil {
		return nil, err
	}
	eo := engine.Options{
		BasePath:      base,
		TransformURL:  transform,
		SkipFiles:     engine.FileSkip{Pattern: o.SkipFiles},
		SkipTemplates: engine.TemplateSkip{Pattern: o.SkipTemplates},
		SkipErrors:    o.SkipErrors,
		SkipRemote:    o.SkipRemote,
		Logger:        logger,
	}
	if extra != nil {
		extra(&eo)
	}
	return engine.NewConfig(eo)
}

// merge copies into o every field of src that was set on the command line.
func (o *Options) merge(src *Options, set map[string]bool) {
	if set["base-path"] {
		o.BasePath = src.BasePath
	}
	if set["transform-url"] {
		o.TransformURL = src.TransformURL
	}
	if set["skip-files"] {
		o.SkipFiles = src.SkipFiles
	}
	if set["skip-templates"] {
		o.SkipTemplates = src.SkipTemplates
	}
	if set["skip-errors"] {
		o.SkipErrors = src.SkipErrors
	}
	if set["skip-remote"] {
		o.SkipRemote = src.SkipRemote
	}
	if set["debug"] {
		o.Debug = src.Debug
	}
	if set["out-dir"] {
		o.OutDir = src.OutDir
	}
	if set["in-place"] {
		o.InPlace = src.InPlace
	}
	if set["ext"] {
		o.Extensions = src.Extensions
	}
	if set["sandbox"] {
		o.Sandbox = src.Sandbox
	}
	if set["debounce"] {
		o.Debounce = src.Debounce
	}
}
