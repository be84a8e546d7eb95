package toolchain

// lcov.go contains utilities for building lcov and genhtml commands.

// LcovOptions contains options for lcov.
type LcovOptions struct {
	BaseDir      string // --base-directory (default: .)
	Directory    string // --directory (default: .)
	ZeroCounters bool   // Reset counters instead of capturing
	GcovTool     string // --gcov-tool, used when capturing
	Output       string // Info file written when capturing (default: x.info)
	Quiet        bool   // -q
}

// BuildLcovArgs builds lcov command arguments. ZeroCounters takes
// precedence over capturing.
func BuildLcovArgs(opts LcovOptions) []string {
	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = "."
	}
	directory := opts.Directory
	if directory == "" {
		directory = "."
	}

	args := []string{"--base-directory", baseDir, "--directory", directory}

	if opts.ZeroCounters {
		args = append(args, "-zerocounters")
	} else {
		if opts.GcovTool != "" {
			args = append(args, "--gcov-tool", opts.GcovTool)
		}

		output := opts.Output
		if output == "" {
			output = InfoFile
		}
		args = append(args,
			"--capture",
			"--rc", "geninfo_checksum=1",
			"--rc", "geninfo_gcov_all_blocks=1",
			"--rc", "lcov_branch_coverage=1",
			"-o", output,
		)
	}

	if opts.Quiet {
		args = append(args, "-q")
	}

	return args
}

// Lcov returns the lcov command to run in dir.
func Lcov(opts LcovOptions, dir string) Command {
	return Command{Name: "lcov", Args: BuildLcovArgs(opts), Dir: dir}
}

// GenhtmlOptions contains options for genhtml.
type GenhtmlOptions struct {
	OutputDir        string // -o (default: .)
	FunctionCoverage bool
	BranchCoverage   bool
	InfoFile         string // Tracefile to render (default: x.info)
}

// BuildGenhtmlArgs builds genhtml command arguments.
func BuildGenhtmlArgs(opts GenhtmlOptions) []string {
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	args := []string{"-o", outputDir}

	if opts.FunctionCoverage {
		args = append(args, "--function-coverage")
	}
	if opts.BranchCoverage {
		args = append(args, "--branch-coverage")
	}

	infoFile := opts.InfoFile
	if infoFile == "" {
		infoFile = InfoFile
	}
	args = append(args, infoFile)

	return args
}

// Genhtml returns the genhtml command to run in dir. Its progress output
// on stdout is discarded.
func Genhtml(opts GenhtmlOptions, dir string) Command {
	return Command{Name: "genhtml", Args: BuildGenhtmlArgs(opts), Dir: dir, DiscardStdout: true}
}
