package engine

import (
	"context"
	"fmt"
)

// Stats counts what happened to one unit.
type Stats struct {
	Matches  int
	Replaced int
	Skipped  int
}

type compiled struct {
	proc    Processor
	matcher *Matcher
}

// Engine applies an ordered chain of processors to units. It holds no
// mutable state and may process distinct units concurrently.
type Engine struct {
	cfg   *Config
	chain []compiled
}

// New compiles each processor's pattern and returns an Engine.
func New(cfg *Config, procs ...Processor) (*Engine, error) {
	if cfg == nil {
		return nil, ErrNoBasePath
	}
	e := &Engine{cfg: cfg}
	for _, p := range procs {
		m, err := CompileMatcher(p.Pattern())
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", p.Name(), err)
		}
		e.chain = append(e.chain, compiled{proc: p, matcher: m})
	}
	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() *Config {
	return e.cfg
}

// Process runs the processor chain over u. On success u.Contents holds
// the transformed buffer. On error u is left exactly as it was delivered
// and the returned error is an *Error.
func (e *Engine) Process(ctx context.Context, u *Unit) (Stats, error) {
	var stats Stats
	log := e.cfg.Logger()

	if u.IsNull() || (!u.IsStream() && len(u.Contents) == 0) {
		return stats, nil
	}
	if u.IsStream() {
		return stats, &Error{
			Plugin: PluginName,
			Path:   u.Path,
			Err:    fmt.Errorf("%w, particular file: %s", ErrStreaming, u.displayPath()),
		}
	}

	log.Debugf("file.path: %s", u.displayPath())

	if e.cfg.SkipFile(u) {
		log.Infof("skip file %s", u.displayPath())
		return stats, nil
	}

	buf := u.Contents
	for _, c := range e.chain {
		next, err := e.run(ctx, u, c, buf, &stats)
		if err != nil {
			return stats, &Error{
				Plugin:    PluginName,
				Path:      u.Path,
				Processor: c.proc.Name(),
				Err:       err,
			}
		}
		buf = next
	}
	u.Contents = buf

	log.Debugf("%s: %d matches, %d replaced, %d skipped", u.displayPath(), stats.Matches, stats.Replaced, stats.Skipped)
	return stats, nil
}

// run drives one processor over buf until no match remains past the cursor.
func (e *Engine) run(ctx context.Context, u *Unit, c compiled, buf []byte, stats *Stats) ([]byte, error) {
	cursor := 0
	for {
		m, ok := c.matcher.FindNext(buf, cursor)
		if !ok {
			return buf, nil
		}
		stats.Matches++

		out := c.proc.Resolve(ctx, u, m, e.cfg)
		e.cfg.emit(Event{
			Unit:      u.Path,
			Processor: c.proc.Name(),
			Match:     m,
			Outcome:   out,
		})

		switch out.Kind {
		case Replaced:
			buf = Splice(buf, out.Directive)
			cursor = out.Directive.Start + out.Directive.InsertedLen()
			stats.Replaced++
		case Skipped:
			cursor = m.End()
			stats.Skipped++
		case Fatal:
			if out.Err == nil {
				return nil, fmt.Errorf("%s: match at offset %d failed", c.proc.Name(), m.Start)
			}
			return nil, out.Err
		default:
			panic(fmt.Sprintf("engine: unknown outcome %d from %s", out.Kind, c.proc.Name()))
		}

		// An empty match would otherwise be found again at the same offset.
		if m.Length == 0 && cursor <= m.Start {
			cursor = m.Start + 1
		}
	}
}
