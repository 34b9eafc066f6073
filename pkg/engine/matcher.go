package engine

import (
	"github.com/coregx/coregex"
)

// Match is one located occurrence of a processor's pattern.
type Match struct {
	Start  int      // byte offset of the whole match
	Length int      // byte length of the whole match
	Groups []string // captured groups, in order, excluding the whole match
}

// End returns the offset just past the match.
func (m Match) End() int {
	return m.Start + m.Length
}

// Group returns the i-th captured group, or "" if it does not exist.
func (m Match) Group(i int) string {
	if i < 0 || i >= len(m.Groups) {
		return ""
	}
	return m.Groups[i]
}

// Matcher finds successive matches of a compiled pattern.
type Matcher struct {
	re *coregex.Regex
}

// CompileMatcher compiles pattern into a Matcher.
func CompileMatcher(pattern string) (*Matcher, error) {
	re, err := coregex.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Matcher{re: re}, nil
}

// MustCompileMatcher is like CompileMatcher but panics on error.
func MustCompileMatcher(pattern string) *Matcher {
	m, err := CompileMatcher(pattern)
	if err != nil {
		panic("engine: compile `" + pattern + "`: " + err.Error())
	}
	return m
}

// String returns the source pattern.
func (m *Matcher) String() string {
	return m.re.String()
}

// FindNext returns the first match that starts at or after from.
// Bytes before from are never examined.
func (m *Matcher) FindNext(buf []byte, from int) (Match, bool) {
	if from < 0 {
		from = 0
	}
	if from > len(buf) {
		return Match{}, false
	}
	loc := m.re.FindSubmatchIndex(buf[from:])
	if loc == nil {
		return Match{}, false
	}
	groups := make([]string, 0, len(loc)/2-1)
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] < 0 {
			groups = append(groups, "")
			continue
		}
		groups = append(groups, string(buf[from+loc[i]:from+loc[i+1]]))
	}
	return Match{
		Start:  from + loc[0],
		Length: loc[1] - loc[0],
		Groups: groups,
	}, true
}
