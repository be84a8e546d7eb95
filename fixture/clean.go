package fixture

// This file contains the clean pass for both variants.

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/perfgo/covfix/cli/toolchain"
)

// Clean removes generated artifacts under root and returns the removed
// paths relative to root. Targets that are already gone are not errors.
func (b *Builder) Clean(root string) ([]string, error) {
	switch b.variant {
	case TempDir:
		return b.cleanTracked(root)
	default:
		return b.cleanPersistent(root)
	}
}

// cleanPersistent removes the counter links and the build directory from
// every top-level directory, fixture or not.
func (b *Builder) cleanPersistent(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list working directory: %w", err)
	}

	var removed []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		for _, name := range []string{toolchain.CounterNotes, toolchain.CounterData} {
			rel := filepath.Join(entry.Name(), name)
			err := os.Remove(filepath.Join(root, rel))
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return removed, fmt.Errorf("failed to remove %s: %w", rel, err)
			}
			b.logger.Debug().Str("file", rel).Msg("Removed")
			removed = append(removed, rel)
		}

		rel := filepath.Join(entry.Name(), BuildDirName)
		if _, err := os.Lstat(filepath.Join(root, rel)); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(root, rel)); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", rel, err)
		}
		b.logger.Debug().Str("dir", rel).Msg("Removed")
		removed = append(removed, rel)
	}

	b.logger.Info().Int("removed", len(removed)).Msg("Cleaned fixtures")
	return removed, nil
}

// trackedPattern matches every file with a tracked extension at any depth.
func trackedPattern() string {
	exts := make([]string, 0, len(TrackedExtensions))
	for _, ext := range TrackedExtensions {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	return "**/*.{" + strings.Join(exts, ",") + "}"
}

// cleanTracked deletes every tracked file below root, regardless of depth
// or which fixture it belongs to.
func (b *Builder) cleanTracked(root string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), trackedPattern(),
		doublestar.WithFilesOnly(),
		doublestar.WithFailOnIOErrors(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to walk working directory: %w", err)
	}

	var removed []string
	for _, match := range matches {
		rel := filepath.FromSlash(match)
		err := os.Remove(filepath.Join(root, rel))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", rel, err)
		}
		b.logger.Debug().Str("file", rel).Msg("Removed")
		removed = append(removed, rel)
	}

	b.logger.Info().Int("removed", len(removed)).Msg("Cleaned fixtures")
	return removed, nil
}
