package fixture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/perfgo/covfix/cli/toolchain"
	"github.com/perfgo/covfix/model"
	"github.com/perfgo/covfix/profile"
)

// PersistentCommands returns the tool invocations of a persistent build in
// dir, in execution order. source is the linked source file name.
func PersistentCommands(p profile.Profile, source, dir string) []toolchain.Command {
	return []toolchain.Command{
		toolchain.Compile(toolchain.CompileOptions{Command: p.Compiler, Source: source}, dir),
		toolchain.Lcov(toolchain.LcovOptions{ZeroCounters: true, Quiet: true}, dir),
		toolchain.Run("./"+toolchain.Executable, dir),
		toolchain.Lcov(toolchain.LcovOptions{GcovTool: p.Gcov, Quiet: true}, dir),
		toolchain.Genhtml(toolchain.GenhtmlOptions{FunctionCoverage: true, BranchCoverage: true}, dir),
		toolchain.Gcovr(toolchain.GcovrOptions{GcovExecutable: p.Gcov, Branches: true, HTMLDetails: true}, dir),
		toolchain.Gcov(p.Gcov, source, dir),
	}
}

// buildPersistent builds f in <fixture>/build. The directory is created
// before anything else and kept whatever happens, so a failed build leaves
// a fixture that looks fresh on the next run.
func (b *Builder) buildPersistent(ctx context.Context, f profile.Fixture) ([]model.Artifact, error) {
	out := filepath.Join(f.Dir, BuildDirName)
	if err := os.Mkdir(out, 0755); err != nil {
		return nil, fmt.Errorf("failed to create build directory: %w", err)
	}

	source, err := linkSource(f, out)
	if err != nil {
		return nil, err
	}

	if err := b.run(ctx, f, PersistentCommands(f.Profile, source, out)); err != nil {
		return nil, err
	}

	return b.linkCounters(f, out)
}
