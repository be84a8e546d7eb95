package profile

// profile.go contains the build profile table that maps a fixture
// directory suffix to the toolchain used to build it.

import (
	"path/filepath"
	"slices"
)

// Profile describes how to build and measure one kind of fixture.
type Profile struct {
	Key       string   // Fixture directory suffix, including the leading dot
	SourceExt string   // Extension of the companion source file in src/
	Compiler  []string // Compiler command, without output and source arguments
	Gcov      string   // gcov executable matching the compiler
}

// Table maps fixture suffixes to profiles.
type Table map[string]Profile

// Default returns the fixed profile table.
func Default() Table {
	return Table{
		".gcc7": {
			Key:       ".gcc7",
			SourceExt: ".cpp",
			Compiler:  []string{"g++-7", "--std=c++14", "--coverage"},
			Gcov:      "gcov-7",
		},
		".clang": {
			Key:       ".clang",
			SourceExt: ".cpp",
			Compiler:  []string{"clang++", "--std=c++14", "--coverage"},
			Gcov:      "gcov",
		},
		".rustc": {
			Key:       ".rustc",
			SourceExt: ".rs",
			Compiler:  []string{"rustc", "-g", "-Zprofile"},
			Gcov:      "gcov",
		},
	}
}

// Classify splits name at its last dot and looks the suffix up in the table.
// It reports false for names without a suffix or with an unknown one.
func (t Table) Classify(name string) (base string, p Profile, ok bool) {
	ext := filepath.Ext(name)
	// A leading dot marks a hidden name, not a suffix.
	if ext == "" || ext == name {
		return "", Profile{}, false
	}
	p, ok = t[ext]
	if !ok {
		return "", Profile{}, false
	}
	return name[:len(name)-len(ext)], p, true
}

// Keys returns the known suffixes in sorted order.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
