package toolchain

// gcov.go contains utilities for building gcovr and gcov commands.

// GcovrOptions contains options for gcovr.
type GcovrOptions struct {
	GcovExecutable string // --gcov-executable
	Root           string // -r (default: .)
	Branches       bool   // -b
	HTMLDetails    bool   // --html-details in addition to --html
	Output         string // -o (default: x.html)
}

// BuildGcovrArgs builds gcovr command arguments for an HTML report.
func BuildGcovrArgs(opts GcovrOptions) []string {
	var args []string

	if opts.GcovExecutable != "" {
		args = append(args, "--gcov-executable="+opts.GcovExecutable)
	}

	root := opts.Root
	if root == "" {
		root = "."
	}
	args = append(args, "-r", root)

	if opts.Branches {
		args = append(args, "-b")
	}

	args = append(args, "--html")
	if opts.HTMLDetails {
		args = append(args, "--html-details")
	}

	output := opts.Output
	if output == "" {
		output = HTMLReport
	}
	args = append(args, "-o", output)

	return args
}

// Gcovr returns the gcovr command to run in dir.
func Gcovr(opts GcovrOptions, dir string) Command {
	return Command{Name: "gcovr", Args: BuildGcovrArgs(opts), Dir: dir}
}

// gcovAnnotationFlags asks gcov for all blocks, branch probabilities and
// counts, function summaries, preserved paths and unconditional branches.
var gcovAnnotationFlags = []string{"-a", "-b", "-c", "-f", "-p", "-u"}

// BuildGcovArgs builds gcov command arguments that annotate source.
func BuildGcovArgs(source string) []string {
	args := make([]string, 0, len(gcovAnnotationFlags)+1)
	args = append(args, gcovAnnotationFlags...)
	return append(args, source)
}

// Gcov returns the gcov command to run in dir. The per-file summary printed
// on stdout is discarded; the .gcov files are what matters.
func Gcov(tool, source, dir string) Command {
	return Command{Name: tool, Args: BuildGcovArgs(source), Dir: dir, DiscardStdout: true}
}
