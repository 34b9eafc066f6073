// Package timeutil parses the short duration strings accepted in flags
// and config files.
package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a non-negative duration with an optional unit
// suffix: ms, s, m or h. A bare number is taken as seconds, so "0.25"
// and "250ms" are the same.
func ParseDuration(value string) (time.Duration, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, fmt.Errorf("invalid duration %q: empty", value)
	}
	multiplier := time.Second
	switch {
	case strings.HasSuffix(s, "ms"):
		multiplier = time.Millisecond
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "s"):
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "m"):
		multiplier = time.Minute
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "h"):
		multiplier = time.Hour
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("invalid duration %q: not finite", value)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid duration %q: negative", value)
	}
	d := n * float64(multiplier)
	if d > math.MaxInt64 {
		return 0, fmt.Errorf("invalid duration %q: too large", value)
	}
	return time.Duration(d), nil
}
