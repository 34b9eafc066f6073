package config

import (
	"os"
	"strings"

	"github.com/rcarmo/go-templateurls/pkg/core"
)

// Invocation is the parsed command line of one command.
type Invocation struct {
	Options
	ConfigFile string
	Paths      []string
}

type flagSpec struct {
	short byte
	long  string
	value bool
}

var flagSpecs = []flagSpec{
	{'b', "base-path", true},
	{'t', "transform-url", true},
	{'s', "skip-files", true},
	{'T', "skip-templates", true},
	{'e', "skip-errors", false},
	{'r', "skip-remote", false},
	{'d', "debug", false},
	{'c', "config", true},
	{'o', "out-dir", true},
	{'i', "in-place", false},
	{0, "ext", true},
	{0, "sandbox", false},
	{0, "debounce", true},
}

func longFlag(name string) (flagSpec, bool) {
	for _, f := range flagSpecs {
		if f.long == name {
			return f, true
		}
	}
	return flagSpec{}, false
}

func shortFlag(c byte) (flagSpec, bool) {
	for _, f := range flagSpecs {
		if f.short != 0 && f.short == c {
			return f, true
		}
	}
	return flagSpec{}, false
}

// ParseArgs parses args for the named command, loads the explicit or
// discovered config file and lets command-line flags override it.
// It returns ExitUsage after reporting any problem on stderr.
func ParseArgs(stdio *core.Stdio, command string, args []string) (*Invocation, int) {
	inv := &Invocation{}
	var flags Options
	set := map[string]bool{}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			inv.Paths = append(inv.Paths, args[i+1:]...)
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			inv.Paths = append(inv.Paths, arg)
			continue
		}
		if strings.HasPrefix(arg, "--") {
			name, value, hasValue := strings.Cut(arg[2:], "=")
			f, ok := longFlag(name)
			if !ok {
				return nil, core.UsageError(stdio, command, "unrecognized option '"+arg+"'")
			}
			if f.value && !hasValue {
				if i+1 >= len(args) {
					return nil, core.UsageError(stdio, command, "option '"+arg+"' requires an argument")
				}
				i++
				value = args[i]
			} else if !f.value && hasValue {
				return nil, core.UsageError(stdio, command, "option '"+arg+"' doesn't allow an argument")
			}
			set[f.long] = true
			inv.apply(&flags, f, value)
			continue
		}

		// Short options cluster: -ed is -e -d. A value option ends the
		// cluster and takes the rest of it, or the next argument.
		for j := 1; j < len(arg); j++ {
			f, ok := shortFlag(arg[j])
			if !ok {
				return nil, core.UsageError(stdio, command, "invalid option -- '"+string(arg[j])+"'")
			}
			set[f.long] = true
			if !f.value {
				inv.apply(&flags, f, "")
				continue
			}
			value := arg[j+1:]
			if value == "" {
				if i+1 >= len(args) {
					return nil, core.UsageError(stdio, command, "option requires an argument -- '"+string(arg[j])+"'")
				}
				i++
				value = args[i]
			}
			inv.apply(&flags, f, value)
			break
		}
	}

	configFile := inv.ConfigFile
	if configFile == "" {
		if wd, err := os.Getwd(); err == nil {
			configFile = Discover(wd)
		}
	}
	if configFile != "" {
		fileOpts, err := LoadFile(configFile)
		if err != nil {
			return nil, core.UsageError(stdio, command, err.Error())
		}
		inv.Options = *fileOpts
		inv.ConfigFile = configFile
	}
	inv.Options.merge(&flags, set)

	if err := inv.Options.Validate(); err != nil {
		return nil, core.UsageError(stdio, command, err.Error())
	}
	if len(inv.Paths) == 0 {
		inv.Paths = []string{"-"}
	}
	return inv, core.ExitSuccess
}

func (inv *Invocation) apply(flags *Options, f flagSpec, value string) {
	switch f.long {
	case "base-path":
		flags.BasePath = value
	case "transform-url":
		flags.TransformURL = value
	case "skip-files":
		flags.SkipFiles = value
	case "skip-templates":
		flags.SkipTemplates = value
	case "skip-errors":
		flags.SkipErrors = true
	case "skip-remote":
		flags.SkipRemote = true
	case "debug":
		flags.Debug = true
	case "config":
		inv.ConfigFile = value
	case "out-dir":
		flags.OutDir = value
	case "in-place":
		flags.InPlace = true
	case "ext":
		for _, e := range strings.Split(value, ",") {
			if e = strings.TrimSpace(e); e != "" {
				flags.Extensions = append(flags.Extensions, e)
			}
		}
	case "sandbox":
		flags.Sandbox = true
	case "debounce":
		flags.Debounce = value
	}
}
