package engine

import (
	"fmt"
	"path/filepath"

	"github.com/rcarmo/go-templateurls/pkg/core"
	"github.com/rcarmo/go-templateurls/pkg/core/fs"
)

// URLTransform post-processes each resolved site-absolute path.
type URLTransform func(url string) (string, error)

// UnitPredicate reports whether a unit should bypass every processor.
type UnitPredicate func(u *Unit) bool

// TemplatePredicate reports whether a resolved template should be left
// unreplaced.
type TemplatePredicate func(templatePath string, u *Unit) bool

// FileSkip selects units to pass through. At most one of Func and Pattern
// may be set; Pattern is matched against the slash-separated unit path.
type FileSkip struct {
	Func    UnitPredicate
	Pattern string
}

// TemplateSkip selects templates to leave unreplaced. At most one of Func
// and Pattern may be set; Pattern is matched against the slash-separated
// template path.
type TemplateSkip struct {
	Func    TemplatePredicate
	Pattern string
}

// Options is the raw input to NewConfig.
type Options struct {
	BasePath      string
	TransformURL  URLTransform
	SkipFiles     FileSkip
	SkipTemplates TemplateSkip
	SkipErrors    bool
	// SkipRemote leaves values such as //cdn/x.html, https://... and
	// data: URLs untouched instead of looking them up on disk.
	SkipRemote bool
	Logger     *core.Logger
	// Access checks that a template exists. Defaults to fs.Access.
	Access func(path string) error
	// Observe, if set, receives an Event for every resolved match.
	Observe func(Event)
}

// Config is the validated, immutable configuration shared by every unit
// of a run.
type Config struct {
	basePath      string
	transformURL  URLTransform
	skipFiles     UnitPredicate
	skipTemplates TemplatePredicate
	skipErrors    bool
	skipRemote    bool
	logger        *core.Logger
	access        func(string) error
	observe       func(Event)
}

// NewConfig validates opts and resolves defaults.
func NewConfig(opts Options) (*Config, error) {
	if opts.BasePath == "" {
		return nil, ErrNoBasePath
	}
	base, err := filepath.Abs(opts.BasePath)
	if err != nil {
		return nil, fmt.Errorf("resolving base path %s: %w", opts.BasePath, err)
	}

	skipFiles, err := opts.SkipFiles.predicate()
	if err != nil {
		return nil, fmt.Errorf("skipFiles: %w", err)
	}
	skipTemplates, err := opts.SkipTemplates.predicate()
	if err != nil {
		return nil, fmt.Errorf("skipTemplates: %w", err)
	}

	cfg := &Config{
		basePath:      filepath.Clean(base),
		transformURL:  opts.TransformURL,
		skipFiles:     skipFiles,
		skipTemplates: skipTemplates,
		skipErrors:    opts.SkipErrors,
		skipRemote:    opts.SkipRemote,
		logger:        opts.Logger,
		access:        opts.Access,
		observe:       opts.Observe,
	}
	if cfg.transformURL == nil {
		cfg.transformURL = func(url string) (string, error) { return url, nil }
	}
	if cfg.logger == nil {
		cfg.logger = core.Discard()
	}
	if cfg.access == nil {
		cfg.access = fs.Access
	}
	return cfg, nil
}

func (s FileSkip) predicate() (UnitPredicate, error) {
	switch {
	case s.Func != nil && s.Pattern != "":
		return nil, ErrInvalidPolicy
	case s.Func != nil:
		return s.Func, nil
	case s.Pattern != "":
		m, err := CompileMatcher(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", s.Pattern, err)
		}
		return func(u *Unit) bool {
			_, ok := m.FindNext([]byte(filepath.ToSlash(u.Path)), 0)
			return ok
		}, nil
	}
	return func(*Unit) bool { return false }, nil
}

func (s TemplateSkip) predicate() (TemplatePredicate, error) {
	switch {
	case s.Func != nil && s.Pattern != "":
		return nil, ErrInvalidPolicy
	case s.Func != nil:
		return s.Func, nil
	case s.Pattern != "":
		m, err := CompileMatcher(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", s.Pattern, err)
		}
		return func(path string, _ *Unit) bool {
			_, ok := m.FindNext([]byte(filepath.ToSlash(path)), 0)
			return ok
		}, nil
	}
	return func(string, *Unit) bool { return false }, nil
}

// BasePath returns the absolute, cleaned base path.
func (c *Config) BasePath() string { return c.basePath }

// TransformURL applies the configured URL transform.
func (c *Config) TransformURL(url string) (string, error) { return c.transformURL(url) }

// SkipFile reports whether u bypasses every processor.
func (c *Config) SkipFile(u *Unit) bool { return c.skipFiles(u) }

// SkipTemplate reports whether the template at path is left unreplaced.
func (c *Config) SkipTemplate(path string, u *Unit) bool { return c.skipTemplates(path, u) }

// SkipErrors reports whether missing templates downgrade to warnings.
func (c *Config) SkipErrors() bool { return c.skipErrors }

// SkipRemote reports whether remote-looking values bypass resolution.
func (c *Config) SkipRemote() bool { return c.skipRemote }

// Logger returns the run's logger. Never nil.
func (c *Config) Logger() *core.Logger { return c.logger }

// Access checks that path exists.
func (c *Config) Access(path string) error { return c.access(path) }

func (c *Config) emit(ev Event) {
	if c.observe != nil {
		c.observe(ev)
	}
}
