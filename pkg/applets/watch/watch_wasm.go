//go:build js || wasm || wasip1

package watch

import "github.com/rcarmo/go-templateurls/pkg/core"

// Run is a stub that returns an error on WASM platforms where file
// notifications are unavailable.
func Run(stdio *core.Stdio, args []string) int {
	stdio.Errorf("watch: not supported in wasm\n")
	return core.ExitFailure
}
