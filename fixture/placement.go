package fixture

// This file contains artifact placement: getting the outputs of a build
// into the fixture directory and recording what was placed.

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/perfgo/covfix/cli/toolchain"
	"github.com/perfgo/covfix/model"
	"github.com/perfgo/covfix/profile"
)

// TrackedExtensions are the output extensions a temporary build moves into
// the fixture and a recursive clean deletes.
var TrackedExtensions = []string{".gcov", ".gcda", ".gcno", ".html"}

// Tracked reports whether name carries a tracked output extension.
func Tracked(name string) bool {
	return slices.Contains(TrackedExtensions, filepath.Ext(name))
}

// artifactType classifies a placed file by its extension.
func artifactType(name string) model.ArtifactType {
	switch filepath.Ext(name) {
	case ".gcda":
		return model.ArtifactTypeCounterData
	case ".gcno":
		return model.ArtifactTypeCounterNotes
	case ".gcov":
		return model.ArtifactTypeAnnotation
	default:
		return model.ArtifactTypeHTML
	}
}

// recordArtifact describes a file that now lives in the fixture directory.
func (b *Builder) recordArtifact(f profile.Fixture, name string) (model.Artifact, error) {
	info, err := os.Stat(filepath.Join(f.Dir, name))
	if err != nil {
		return model.Artifact{}, fmt.Errorf("failed to stat placed artifact: %w", err)
	}

	b.logger.Debug().
		Str("fixture", f.Name).
		Str("file", name).
		Str("size", humanize.Bytes(uint64(info.Size()))).
		Msg("Placed artifact")

	return model.Artifact{
		Type: artifactType(name),
		Size: uint64(info.Size()),
		File: name,
	}, nil
}

// linkCounters hard-links the notes and counter files from the build
// directory into the fixture directory, replacing stale links.
func (b *Builder) linkCounters(f profile.Fixture, out string) ([]model.Artifact, error) {
	var artifacts []model.Artifact
	for _, name := range []string{toolchain.CounterData, toolchain.CounterNotes} {
		dst := filepath.Join(f.Dir, name)
		if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return artifacts, fmt.Errorf("failed to replace %s: %w", dst, err)
		}
		if err := os.Link(filepath.Join(out, name), dst); err != nil {
			return artifacts, fmt.Errorf("failed to link %s into fixture: %w", name, err)
		}

		artifact, err := b.recordArtifact(f, name)
		if err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

// moveTracked renames every tracked file in tmp into the fixture directory.
// The counter data goes last: it is the freshness marker, so it must not
// appear before the files it vouches for.
func (b *Builder) moveTracked(f profile.Fixture, tmp string) ([]model.Artifact, error) {
	entries, err := os.ReadDir(tmp)
	if err != nil {
		return nil, fmt.Errorf("failed to list build outputs: %w", err)
	}

	var names []string
	marker := false
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !Tracked(entry.Name()) {
			continue
		}
		if entry.Name() == toolchain.CounterData {
			marker = true
			continue
		}
		names = append(names, entry.Name())
	}
	if marker {
		names = append(names, toolchain.CounterData)
	}

	var artifacts []model.Artifact
	for _, name := range names {
		if err := os.Rename(filepath.Join(tmp, name), filepath.Join(f.Dir, name)); err != nil {
			return artifacts, fmt.Errorf("failed to move %s into fixture: %w", name, err)
		}

		artifact, err := b.recordArtifact(f, name)
		if err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}
