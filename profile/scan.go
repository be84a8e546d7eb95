package profile

// scan.go enumerates fixture directories in a working tree.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// SourceDir is the directory holding one source file per fixture base name.
const SourceDir = "src"

// Fixture is a directory named <base><profile key> together with the
// profile resolved from its suffix.
type Fixture struct {
	Name    string  // Directory name, e.g. branches.gcc7
	Base    string  // Name without the profile suffix
	Dir     string  // Path to the fixture directory
	Source  string  // Path to the companion source file
	Profile Profile // Profile resolved from the suffix
}

// Fixture returns the fixture for an entry named name under root.
func (t Table) Fixture(root, name string) (Fixture, bool) {
	base, p, ok := t.Classify(name)
	if !ok {
		return Fixture{}, false
	}
	return Fixture{
		Name:    name,
		Base:    base,
		Dir:     filepath.Join(root, name),
		Source:  filepath.Join(root, SourceDir, base+p.SourceExt),
		Profile: p,
	}, true
}

// Scan lists root and returns every directory entry that classifies as a
// fixture, in listing order. Entries with an unknown suffix are skipped.
func (t Table) Scan(logger zerolog.Logger, root string) ([]Fixture, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}

	var fixtures []Fixture
	for _, entry := range entries {
		f, ok := t.Fixture(root, entry.Name())
		if !ok {
			continue
		}
		if !entry.IsDir() {
			logger.Debug().Str("entry", entry.Name()).Msg("Skipping fixture-like entry that is not a directory")
			continue
		}
		fixtures = append(fixtures, f)
	}

	return fixtures, nil
}
