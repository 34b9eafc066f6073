package engine

import "errors"

// PluginName is attached to every Error.
const PluginName = "templateurls"

// Sentinel errors.
var (
	ErrNoBasePath    = errors.New("basePath must be specified, otherwise absolute template paths cannot be resolved")
	ErrStreaming     = errors.New("streaming not supported")
	ErrInvalidPolicy = errors.New("skip policy must be either a predicate or a pattern")
)

// Error is the structured error surfaced once per failing unit.
type Error struct {
	Plugin    string
	Path      string // unit path
	Processor string // dialect that failed, empty for unit-level errors
	Err       error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
