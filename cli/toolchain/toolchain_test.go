package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCompileArgs(t *testing.T) {
	tests := []struct {
		name string
		opts CompileOptions
		want []string
	}{
		{
			name: "gcc with default output",
			opts: CompileOptions{Command: []string{"g++-7", "--std=c++14", "--coverage"}, Source: "x.cpp"},
			want: []string{"--std=c++14", "--coverage", "-o", "x", "x.cpp"},
		},
		{
			name: "rustc",
			opts: CompileOptions{Command: []string{"rustc", "-g", "-Zprofile"}, Source: "x.rs"},
			want: []string{"-g", "-Zprofile", "-o", "x", "x.rs"},
		},
		{
			name: "bare compiler with explicit output",
			opts: CompileOptions{Command: []string{"cc"}, Output: "prog", Source: "main.c"},
			want: []string{"-o", "prog", "main.c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildCompileArgs(tt.opts))
		})
	}
}

func TestCompile(t *testing.T) {
	cmd := Compile(CompileOptions{Command: []string{"clang++", "--std=c++14", "--coverage"}, Source: "x.cpp"}, "/tmp/build")
	assert.Equal(t, "clang++", cmd.Name)
	assert.Equal(t, "/tmp/build", cmd.Dir)
	assert.False(t, cmd.DiscardStdout)
	assert.Equal(t, "clang++ --std=c++14 --coverage -o x x.cpp", cmd.String())
}

func TestBuildLcovArgs(t *testing.T) {
	t.Run("zero counters", func(t *testing.T) {
		got := BuildLcovArgs(LcovOptions{ZeroCounters: true, Quiet: true})
		assert.Equal(t, []string{"--base-directory", ".", "--directory", ".", "-zerocounters", "-q"}, got)
	})

	t.Run("capture", func(t *testing.T) {
		got := BuildLcovArgs(LcovOptions{GcovTool: "gcov-7", Quiet: true})
		assert.Equal(t, []string{
			"--base-directory", ".",
			"--directory", ".",
			"--gcov-tool", "gcov-7",
			"--capture",
			"--rc", "geninfo_checksum=1",
			"--rc", "geninfo_gcov_all_blocks=1",
			"--rc", "lcov_branch_coverage=1",
			"-o", "x.info",
			"-q",
		}, got)
	})

	t.Run("zero counters ignores capture options", func(t *testing.T) {
		got := BuildLcovArgs(LcovOptions{ZeroCounters: true, GcovTool: "gcov", Output: "y.info"})
		assert.NotContains(t, got, "--gcov-tool")
		assert.NotContains(t, got, "y.info")
	})
}

func TestBuildGenhtmlArgs(t *testing.T) {
	got := BuildGenhtmlArgs(GenhtmlOptions{FunctionCoverage: true, BranchCoverage: true})
	assert.Equal(t, []string{"-o", ".", "--function-coverage", "--branch-coverage", "x.info"}, got)

	cmd := Genhtml(GenhtmlOptions{}, "d")
	assert.True(t, cmd.DiscardStdout)
	assert.Equal(t, []string{"-o", ".", "x.info"}, cmd.Args)
}

func TestBuildGcovrArgs(t *testing.T) {
	got := BuildGcovrArgs(GcovrOptions{GcovExecutable: "gcov-7", Branches: true, HTMLDetails: true})
	assert.Equal(t, []string{"--gcov-executable=gcov-7", "-r", ".", "-b", "--html", "--html-details", "-o", "x.html"}, got)
}

func TestGcov(t *testing.T) {
	cmd := Gcov("gcov-7", "x.cpp", "b")
	assert.Equal(t, "gcov-7", cmd.Name)
	assert.Equal(t, []string{"-a", "-b", "-c", "-f", "-p", "-u", "x.cpp"}, cmd.Args)
	assert.True(t, cmd.DiscardStdout)

	// Builders must not share the flag slice.
	args := BuildGcovArgs("a.rs")
	args[0] = "-z"
	assert.Equal(t, "-a", BuildGcovArgs("b.rs")[0])
}

func TestCommandString(t *testing.T) {
	cmd := Command{Name: "gcovr", Args: []string{"-o", "my report.html", "--filter=a'b"}}
	assert.Equal(t, `gcovr -o 'my report.html' '--filter=a'"'"'b'`, cmd.String())
}

func TestExecRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	var stdout, stderr bytes.Buffer
	runner := NewExecRunner(zerolog.Nop()).WithOutput(&stdout, &stderr)
	ctx := context.Background()

	t.Run("runs in dir", func(t *testing.T) {
		stdout.Reset()
		dir := t.TempDir()
		err := runner.Run(ctx, Command{Name: "sh", Args: []string{"-c", "pwd"}, Dir: dir})
		require.NoError(t, err)
		want, err := filepath.EvalSymlinks(dir)
		require.NoError(t, err)
		got, err := filepath.EvalSymlinks(strings.TrimSpace(stdout.String()))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("discards stdout", func(t *testing.T) {
		stdout.Reset()
		err := runner.Run(ctx, Command{Name: "sh", Args: []string{"-c", "echo hidden"}, DiscardStdout: true})
		require.NoError(t, err)
		assert.Empty(t, stdout.String())
	})

	t.Run("propagates exit status", func(t *testing.T) {
		stderr.Reset()
		err := runner.Run(ctx, Command{Name: "sh", Args: []string{"-c", "echo boom >&2; exit 3"}})
		require.Error(t, err)

		var exitErr *exec.ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 3, exitErr.ExitCode())
		assert.Equal(t, "boom\n", stderr.String())
	})

	t.Run("missing program", func(t *testing.T) {
		err := runner.Run(ctx, Command{Name: "covfix-no-such-tool"})
		require.Error(t, err)
		var exitErr *exec.ExitError
		assert.False(t, errors.As(err, &exitErr))
	})
}
