// Command resolve-templateurls is a standalone entry point for the
// resolve command.
package main

import (
	"os"

	"github.com/rcarmo/go-templateurls/pkg/applets/resolve"
	"github.com/rcarmo/go-templateurls/pkg/core"
)

func main() {
	stdio := core.DefaultStdio()
	os.Exit(resolve.Run(stdio, os.Args[1:]))
}
