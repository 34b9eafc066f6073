// Package angular implements the templateUrl directive dialect used by
// AngularJS component and directive definitions.
package angular

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rcarmo/go-templateurls/pkg/engine"
)

// Key is the property name this dialect rewrites.
const Key = "templateUrl"

// Pattern matches the key (bare or quoted), optional whitespace, a colon,
// optional whitespace and a quoted value. Whitespace is the ECMAScript set:
// ASCII space and controls plus \v, NBSP, BOM, line and paragraph
// separators and every Zs space. The value may not contain any of
// the three quote characters. A comment such as /*!*/ between the colon
// and the value prevents the match, which is how a directive opts out.
const Pattern = `['"]?templateUrl['"]?` + space + `:` + space + `['"` + "`" + `]([^'"` + "`" + `]+)['"` + "`" + `]`

const space = `[\s\v\x{a0}\x{feff}\x{2028}\x{2029}\p{Zs}]*`

// Processor resolves relative templateUrl values to site-absolute paths.
type Processor struct{}

// New returns the templateUrl processor.
func New() *Processor {
	return &Processor{}
}

// Name implements engine.Processor.
func (p *Processor) Name() string { return "angular" }

// Pattern implements engine.Processor.
func (p *Processor) Pattern() string { return Pattern }

// Resolve implements engine.Processor.
func (p *Processor) Resolve(ctx context.Context, u *engine.Unit, m engine.Match, cfg *engine.Config) engine.Outcome {
	log := cfg.Logger()
	value := m.Group(0)

	if cfg.SkipRemote() && isRemote(value) {
		log.Debugf("remote template url left as-is: %s", value)
		return engine.Skip(engine.ReasonRemote)
	}

	target := TemplatePath(u.Path, value, cfg.BasePath())
	if !filepath.IsAbs(target) {
		abs, err := filepath.Abs(target)
		if err != nil {
			return engine.Fail(err)
		}
		target = abs
	}
	log.Debugf("template path: %s", target)

	if cfg.SkipTemplate(target, u) {
		log.Infof("skip template %s", target)
		out := engine.Skip(engine.ReasonPolicy)
		out.Target = target
		return out
	}

	if err := ctx.Err(); err != nil {
		return engine.Fail(err)
	}
	if err := cfg.Access(target); err != nil {
		err = fmt.Errorf("Can't access template file or it doesn't exist: \"%s\". Error details: %w", target, err)
		if cfg.SkipErrors() {
			log.Warnf("%v", err)
			out := engine.Skip(engine.ReasonMissing)
			out.Target = target
			out.Err = err
			return out
		}
		return engine.Fail(err)
	}

	url, err := SiteURL(cfg.BasePath(), target)
	if err != nil {
		return engine.Fail(err)
	}
	url, err = cfg.TransformURL(url)
	if err != nil {
		return engine.Fail(fmt.Errorf("transformUrl %s: %w", target, err))
	}

	out := engine.Replace(engine.Directive{
		Start:  m.Start,
		Length: m.Length,
		Fragments: [][]byte{
			[]byte(Key + ":'"),
			[]byte(url),
			[]byte("'"),
		},
	})
	out.Target = target
	out.URL = url
	return out
}

// TemplatePath returns the filesystem path a templateUrl value refers to.
// Relative values are resolved against the unit's directory; values that
// are already site-absolute are resolved against the base path, so a
// rewritten directive resolves to the same file again.
func TemplatePath(unitPath, value, basePath string) string {
	rel := filepath.FromSlash(value)
	if strings.HasPrefix(value, "/") {
		return filepath.Join(basePath, rel)
	}
	return filepath.Join(filepath.Dir(unitPath), rel)
}

// SiteURL renders target as a forward-slash path rooted at basePath.
func SiteURL(basePath, target string) (string, error) {
	rel, err := filepath.Rel(basePath, target)
	if err != nil {
		return "", fmt.Errorf("template %s is not reachable from base path %s: %w", target, basePath, err)
	}
	return "/" + filepath.ToSlash(rel), nil
}

func isRemote(value string) bool {
	return strings.HasPrefix(value, "//") || strings.Contains(value, "://") || strings.HasPrefix(value, "data:")
}
