package toolchain

// compile.go contains utilities for building compiler commands.

// CompileOptions contains options for an instrumented compile.
type CompileOptions struct {
	Command []string // Compiler and its fixed flags, e.g. g++-7 --coverage
	Output  string   // Executable to produce (default: x)
	Source  string   // Source file to compile
}

// BuildCompileArgs builds the compiler arguments, excluding the compiler itself.
func BuildCompileArgs(opts CompileOptions) []string {
	output := opts.Output
	if output == "" {
		output = Executable
	}

	args := make([]string, 0, len(opts.Command)+2)
	if len(opts.Command) > 1 {
		args = append(args, opts.Command[1:]...)
	}
	args = append(args, "-o", output, opts.Source)

	return args
}

// Compile returns the compile command to run in dir.
func Compile(opts CompileOptions, dir string) Command {
	var name string
	if len(opts.Command) > 0 {
		name = opts.Command[0]
	}
	return Command{
		Name: name,
		Args: BuildCompileArgs(opts),
		Dir:  dir,
	}
}

// Run returns the command executing a built program in dir.
func Run(program, dir string) Command {
	return Command{
		Name:          program,
		Dir:           dir,
		DiscardStdout: true,
	}
}
