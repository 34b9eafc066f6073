package core

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	ansiYellow  = "\x1b[33m"
	ansiMagenta = "\x1b[35m"
	ansiRed     = "\x1b[31m"
	ansiReset   = "\x1b[0m"
)

// Logger writes prefixed diagnostics to a Stdio's error stream.
// The zero value is not usable; build one with NewLogger.
type Logger struct {
	stdio  *Stdio
	prefix string
	debug  bool
	color  bool
}

// NewLogger returns a Logger for the named command. Debug output is
// dropped unless debug is true. Colour is enabled only when stderr is a
// terminal.
func NewLogger(stdio *Stdio, name string, debug bool) *Logger {
	return &Logger{
		stdio:  stdio,
		prefix: name,
		debug:  debug,
		color:  isTerminal(stdio),
	}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return &Logger{}
}

// DebugEnabled reports whether Debugf produces output.
func (l *Logger) DebugEnabled() bool {
	return l != nil && l.debug && l.stdio != nil
}

// Debugf logs verbose diagnostics when debug mode is on.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.emit("", "", format, args...)
}

// Infof logs an informational message.
func (l *Logger) Infof(format string, args ...any) {
	l.emit("", "", format, args...)
}

// Warnf logs a warning tagged [Warning].
func (l *Logger) Warnf(format string, args ...any) {
	l.emit("[Warning]", ansiYellow, format, args...)
}

// Errorf logs an error tagged [Error].
func (l *Logger) Errorf(format string, args ...any) {
	l.emit("[Error]", ansiRed, format, args...)
}

func (l *Logger) emit(tag, tagColor, format string, args ...any) {
	if l == nil || l.stdio == nil {
		return
	}
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	var b strings.Builder
	b.WriteString(l.prefix)
	b.WriteString(": ")
	if tag != "" {
		if l.color {
			b.WriteString(tagColor + tag + ansiReset + " " + ansiMagenta + msg + ansiReset)
		} else {
			b.WriteString(tag + " " + msg)
		}
	} else {
		b.WriteString(msg)
	}
	b.WriteByte('\n')
	l.stdio.Errorf("%s", b.String())
}

func isTerminal(stdio *Stdio) bool {
	if stdio == nil {
		return false
	}
	if f, ok := stdio.Err.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
