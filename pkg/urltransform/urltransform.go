// Package urltransform builds URL transforms from AWK programs.
//
// The program sees the resolved site-absolute path as its only input record
// ($0) and in the variable url. Whatever it prints, minus the trailing
// newline, becomes the rewritten URL:
//
//	{ print "/static" $0 }
//	{ sub(/^\/app/, ""); print }
//	BEGIN { v = ENVIRON["BUILD_ID"] } { print $0 "?v=" v }
package urltransform

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/benhoyt/goawk/interp"
	"github.com/benhoyt/goawk/parser"

	"github.com/rcarmo/go-templateurls/pkg/engine"
)

// ErrNoOutput is returned when a program prints nothing for a URL.
var ErrNoOutput = errors.New("transform program produced no output")

// Identity returns url unchanged.
func Identity(url string) (string, error) {
	return url, nil
}

// AWK compiles program into an engine.URLTransform. Parse errors are
// reported here, at configuration time.
func AWK(program string) (engine.URLTransform, error) {
	if strings.TrimSpace(program) == "" {
		return Identity, nil
	}
	prog, err := parser.ParseProgram([]byte(program), nil)
	if err != nil {
		return nil, fmt.Errorf("parsing transform program: %w", err)
	}
	environ := environ()

	return func(url string) (string, error) {
		var out, errOut bytes.Buffer
		config := &interp.Config{
			Stdin:        strings.NewReader(url + "\n"),
			Output:       &out,
			Error:        &errOut,
			Args:         []string{},
			Vars:         []string{"url", url},
			Environ:      environ,
			NoExec:       true,
			NoFileReads:  true,
			NoFileWrites: true,
		}
		status, err := interp.ExecProgram(prog, config)
		if err != nil {
			return "", fmt.Errorf("transform %s: %w", url, err)
		}
		if status != 0 {
			msg := strings.TrimSpace(errOut.String())
			if msg == "" {
				msg = fmt.Sprintf("exit status %d", status)
			}
			return "", fmt.Errorf("transform %s: %s", url, msg)
		}
		result := strings.TrimRight(out.String(), "\r\n")
		if result == "" {
			return "", fmt.Errorf("transform %s: %w", url, ErrNoOutput)
		}
		if i := strings.IndexByte(result, '\n'); i >= 0 {
			result = result[:i]
		}
		return result, nil
	}, nil
}

func environ() []string {
	env := os.Environ()
	pairs := make([]string, 0, len(env)*2)
	for _, entry := range env {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		pairs = append(pairs, name, value)
	}
	return pairs
}
