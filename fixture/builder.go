// Package fixture rebuilds coverage fixtures: it decides which fixtures are
// stale, runs the instrumented build and the report generators for them,
// places the resulting artifacts and removes them again on clean.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/perfgo/covfix/cli/toolchain"
	"github.com/perfgo/covfix/model"
	"github.com/perfgo/covfix/profile"
	"github.com/rs/zerolog"
)

// Variant selects where a build happens and which marker makes a fixture fresh.
type Variant string

const (
	// Persistent builds in <fixture>/build and keeps it. The build
	// directory is the freshness marker.
	Persistent Variant = "persistent"
	// TempDir builds in a temporary directory and moves tracked outputs
	// into the fixture. x.gcda is the freshness marker.
	TempDir Variant = "tempdir"
)

// BuildDirName is the persistent output directory inside a fixture.
const BuildDirName = "build"

// ParseVariant parses a variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case Persistent, TempDir:
		return v, nil
	default:
		return "", fmt.Errorf("unknown variant %q (expected %q or %q)", s, Persistent, TempDir)
	}
}

// Builder runs build and clean passes over a working tree.
type Builder struct {
	logger   zerolog.Logger
	runner   toolchain.Runner
	variant  Variant
	profiles profile.Table
}

// NewBuilder creates a builder executing tools through runner.
func NewBuilder(logger zerolog.Logger, runner toolchain.Runner, variant Variant, profiles profile.Table) *Builder {
	return &Builder{
		logger:   logger,
		runner:   runner,
		variant:  variant,
		profiles: profiles,
	}
}

// Variant returns the variant the builder was created with.
func (b *Builder) Variant() Variant {
	return b.variant
}

// Fresh reports whether f was already built.
func (b *Builder) Fresh(f profile.Fixture) (bool, error) {
	switch b.variant {
	case TempDir:
		return b.freshTempDir(f)
	default:
		return b.freshPersistent(f)
	}
}

func (b *Builder) freshPersistent(f profile.Fixture) (bool, error) {
	info, err := os.Stat(filepath.Join(f.Dir, BuildDirName))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check build directory of %s: %w", f.Name, err)
	}
	if !info.IsDir() {
		return false, nil
	}

	// An interrupted run leaves build/ behind without counters. The
	// fixture still counts as fresh.
	if _, err := os.Stat(filepath.Join(f.Dir, toolchain.CounterData)); errors.Is(err, fs.ErrNotExist) {
		b.logger.Warn().
			Str("fixture", f.Name).
			Msg("Build directory exists but counter data is missing; remove it to force a rebuild")
	}

	return true, nil
}

func (b *Builder) freshTempDir(f profile.Fixture) (bool, error) {
	info, err := os.Stat(filepath.Join(f.Dir, toolchain.CounterData))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check counter data of %s: %w", f.Name, err)
	}
	return !info.IsDir(), nil
}

// Build rebuilds every stale fixture under root, one at a time. It stops at
// the first failure and returns the results gathered so far together with
// the error.
func (b *Builder) Build(ctx context.Context, root string) ([]model.FixtureResult, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	fixtures, err := b.profiles.Scan(b.logger, root)
	if err != nil {
		return nil, err
	}

	b.logger.Debug().
		Str("dir", root).
		Str("variant", string(b.variant)).
		Int("fixtures", len(fixtures)).
		Msg("Scanned working directory")

	var results []model.FixtureResult
	for _, f := range fixtures {
		result := model.FixtureResult{Name: f.Name, Profile: f.Profile.Key}

		fresh, err := b.Fresh(f)
		if err != nil {
			result.Status = model.FixtureStatusFailed
			result.Error = err.Error()
			return append(results, result), err
		}
		if fresh {
			b.logger.Info().Str("fixture", f.Name).Msg("Fresh")
			result.Status = model.FixtureStatusFresh
			results = append(results, result)
			continue
		}

		b.logger.Info().
			Str("fixture", f.Name).
			Str("profile", f.Profile.Key).
			Msg("Rebuilding")

		start := time.Now()
		artifacts, err := b.buildFixture(ctx, f)
		result.Duration = time.Since(start)
		result.Artifacts = artifacts
		if err != nil {
			b.logger.Error().Err(err).Str("fixture", f.Name).Msg("Failed to rebuild fixture")
			result.Status = model.FixtureStatusFailed
			result.Error = err.Error()
			return append(results, result), err
		}

		result.Status = model.FixtureStatusRebuilt
		results = append(results, result)
	}

	return results, nil
}

func (b *Builder) buildFixture(ctx context.Context, f profile.Fixture) ([]model.Artifact, error) {
	switch b.variant {
	case TempDir:
		return b.buildTempDir(ctx, f)
	default:
		return b.buildPersistent(ctx, f)
	}
}

// linkSource hard-links the fixture's source into dir as x<ext>, so that
// compiler-embedded paths and gcov resolve against one stable name.
func linkSource(f profile.Fixture, dir string) (string, error) {
	name := toolchain.Executable + f.Profile.SourceExt
	if err := os.Link(f.Source, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("failed to link source for %s: %w", f.Name, err)
	}
	return name, nil
}

// run executes cmds in order and stops at the first failure.
func (b *Builder) run(ctx context.Context, f profile.Fixture, cmds []toolchain.Command) error {
	for _, cmd := range cmds {
		b.logger.Debug().
			Str("fixture", f.Name).
			Str("command", cmd.String()).
			Msg("Running")
		if err := b.runner.Run(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}
