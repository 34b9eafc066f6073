package engine

import "context"

// Processor is one directive dialect: a pattern and the policy that decides
// what each match of it becomes.
type Processor interface {
	// Name identifies the dialect in logs and events.
	Name() string
	// Pattern returns the regular expression locating directives. The
	// resolver receives its capture groups in Match.Groups.
	Pattern() string
	// Resolve decides the outcome for one match. It may block on the
	// filesystem and must honour ctx.
	Resolve(ctx context.Context, u *Unit, m Match, cfg *Config) Outcome
}

// OutcomeKind enumerates what a resolver decided.
type OutcomeKind int

const (
	// Replaced means the match is rewritten with Outcome.Directive.
	Replaced OutcomeKind = iota
	// Skipped means the match is left as-is and scanning continues past it.
	Skipped
	// Fatal means processing of the unit stops with Outcome.Err.
	Fatal
)

func (k OutcomeKind) String() string {
	switch k {
	case Replaced:
		return "replaced"
	case Skipped:
		return "skipped"
	case Fatal:
		return "fatal"
	}
	return "unknown"
}

// Skip reasons reported in Outcome.Reason.
const (
	ReasonPolicy  = "skip-templates"
	ReasonMissing = "missing"
	ReasonRemote  = "remote"
)

// Outcome is the result of resolving one match.
type Outcome struct {
	Kind      OutcomeKind
	Directive Directive // set when Kind is Replaced
	Err       error     // set when Kind is Fatal; may be set for skips
	Reason    string    // why a match was skipped
	Target    string    // resolved filesystem path, if any
	URL       string    // value written into the buffer, if any
}

// Replace returns a Replaced outcome.
func Replace(d Directive) Outcome {
	return Outcome{Kind: Replaced, Directive: d}
}

// Skip returns a Skipped outcome with the given reason.
func Skip(reason string) Outcome {
	return Outcome{Kind: Skipped, Reason: reason}
}

// Fail returns a Fatal outcome.
func Fail(err error) Outcome {
	return Outcome{Kind: Fatal, Err: err}
}

// Event is published to Config's observer for every resolved match.
type Event struct {
	Unit      string
	Processor string
	Match     Match
	Outcome   Outcome
}
