package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rcarmo/go-templateurls/pkg/applets/check"
	"github.com/rcarmo/go-templateurls/pkg/applets/resolve"
	"github.com/rcarmo/go-templateurls/pkg/applets/watch"
	"github.com/rcarmo/go-templateurls/pkg/core"
)

const binaryName = "templateurls"

type commandFunc func(stdio *core.Stdio, args []string) int

var commands = map[string]commandFunc{
	"resolve": resolve.Run,
	"check":   check.Run,
	"watch":   watch.Run,
}

func main() {
	stdio := core.DefaultStdio()

	command, args := resolveCommand(os.Args)
	if command == "" {
		printCommandList(stdio)
		os.Exit(core.ExitUsage)
	}

	run, ok := commands[command]
	if !ok {
		stdio.Errorf("%s: command not found: %s\n", binaryName, command)
		printCommandList(stdio)
		os.Exit(core.ExitUsage)
	}

	// Commands expect args without the command name.
	os.Exit(run(stdio, args))
}

// resolveCommand picks the command from argv. "templateurls check ..."
// names it explicitly; a link such as "check-templateurls" or
// "resolve-templateurls" names it through argv[0].
func resolveCommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}

	base := strings.TrimSuffix(filepath.Base(args[0]), ".exe")
	if base == binaryName {
		if len(args) < 2 {
			return "", nil
		}
		return args[1], args[2:]
	}

	return strings.TrimSuffix(base, "-"+binaryName), args[1:]
}

func printCommandList(stdio *core.Stdio) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	stdio.Println("Usage: " + binaryName + " <command> [options] [paths...]")
	stdio.Println("Currently defined commands:")
	for _, name := range names {
		stdio.Print(" ", name)
	}
	stdio.Println()
}
