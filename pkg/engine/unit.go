// Package engine implements the match, resolve and splice cycle that
// rewrites directives inside in-memory source buffers.
//
// An Engine owns an ordered list of Processors (one per directive dialect)
// and an immutable Config. Process runs every processor over one Unit in
// turn; each processor scans its buffer for successive matches, asks its
// Resolve method what to do with each one and splices replacements in
// without touching any other byte.
package engine

import "io"

// Unit is one source file: its path and its fully materialised contents.
type Unit struct {
	// Path identifies the unit. Relative template references are resolved
	// against its directory. It may be synthetic.
	Path string
	// Contents holds the whole buffer. A nil Contents marks a null unit,
	// which is passed through untouched.
	Contents []byte
	// Stream is set by callers that only have a reader. Such units are
	// rejected with ErrStreaming.
	Stream io.Reader
}

// IsNull reports whether the unit carries no buffer at all.
func (u *Unit) IsNull() bool {
	return u.Contents == nil && u.Stream == nil
}

// IsStream reports whether the unit is delivered as a stream.
func (u *Unit) IsStream() bool {
	return u.Stream != nil
}

func (u *Unit) displayPath() string {
	if u.Path == "" {
		return "fake"
	}
	return u.Path
}
