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

// tempDirPattern names the scratch directory created inside a fixture. It
// lives next to the fixture so the source link and the final renames stay
// on one filesystem.
const tempDirPattern = ".covfix-*"

// TempDirCommands returns the tool invocations of a temporary build in dir,
// in execution order. source is the linked source file name.
func TempDirCommands(p profile.Profile, source, dir string) []toolchain.Command {
	return []toolchain.Command{
		toolchain.Compile(toolchain.CompileOptions{Command: p.Compiler, Source: source}, dir),
		toolchain.Run(filepath.Join(dir, toolchain.Executable), dir),
		toolchain.Gcovr(toolchain.GcovrOptions{GcovExecutable: p.Gcov, Branches: true, HTMLDetails: true}, dir),
	}
}

// buildTempDir builds f in a scratch directory that is removed on return,
// and moves the tracked outputs into the fixture only once every step
// succeeded.
func (b *Builder) buildTempDir(ctx context.Context, f profile.Fixture) ([]model.Artifact, error) {
	tmp, err := os.MkdirTemp(f.Dir, tempDirPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary build directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmp); err != nil {
			b.logger.Warn().Err(err).Str("dir", tmp).Msg("Failed to clean up temporary build directory")
		} else {
			b.logger.Debug().Str("dir", tmp).Msg("Temporary build directory cleaned up")
		}
	}()

	source, err := linkSource(f, tmp)
	if err != nil {
		return nil, err
	}

	if err := b.run(ctx, f, TempDirCommands(f.Profile, source, tmp)); err != nil {
		return nil, err
	}

	return b.moveTracked(f, tmp)
}
