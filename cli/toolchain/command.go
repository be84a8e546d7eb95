package toolchain

// command.go contains the command description shared by all tool builders.

import (
	"strings"

	"al.essio.dev/pkg/shellescape"
)

// Fixed file names used inside a build directory.
const (
	Executable   = "x"
	CounterData  = "x.gcda"
	CounterNotes = "x.gcno"
	InfoFile     = "x.info"
	HTMLReport   = "x.html"
)

// Command is a single tool invocation.
type Command struct {
	Name          string   // Program to run
	Args          []string // Arguments, without the program name
	Dir           string   // Working directory
	DiscardStdout bool     // Drop the program's standard output
}

// String renders the command as a shell-escaped command line.
func (c Command) String() string {
	return BuildCommandLine(c.Name, c.Args)
}

// BuildCommandLine joins name and args with proper shell escaping.
func BuildCommandLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, shellescape.Quote(name))

	for _, arg := range args {
		parts = append(parts, shellescape.Quote(arg))
	}

	return strings.Join(parts, " ")
}
