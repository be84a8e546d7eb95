package fixture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/perfgo/covfix/cli/toolchain"
	"github.com/stretchr/testify/require"
)

var errToolFailed = errors.New("exit status 1")

// fakeRunner stands in for the toolchain. Each tool writes the files the
// real one would leave in its working directory.
type fakeRunner struct {
	t        *testing.T
	commands []toolchain.Command
	// failures maps a program name to the error it returns.
	failures map[string]error
}

func newFakeRunner(t *testing.T) *fakeRunner {
	return &fakeRunner{t: t, failures: map[string]error{}}
}

func (r *fakeRunner) Run(ctx context.Context, cmd toolchain.Command) error {
	r.commands = append(r.commands, cmd)
	if err := ctx.Err(); err != nil {
		return err
	}

	name := filepath.Base(cmd.Name)
	if err, ok := r.failures[name]; ok {
		return err
	}

	switch name {
	case "g++-7", "clang++", "rustc":
		source := cmd.Args[len(cmd.Args)-1]
		if _, err := os.Stat(filepath.Join(cmd.Dir, source)); err != nil {
			return err
		}
		r.write(cmd.Dir, toolchain.Executable, "binary")
		r.write(cmd.Dir, toolchain.CounterNotes, "notes")
	case toolchain.Executable:
		r.write(cmd.Dir, toolchain.CounterData, "counters")
	case "lcov":
		if !contains(cmd.Args, "-zerocounters") {
			r.write(cmd.Dir, toolchain.InfoFile, "TN:")
		}
	case "genhtml":
		r.write(cmd.Dir, "index.html", "<html>lcov</html>")
	case "gcovr":
		r.write(cmd.Dir, toolchain.HTMLReport, "<html>gcovr</html>")
		r.write(cmd.Dir, "x.x.cpp.html", "<html>details</html>")
	case "gcov", "gcov-7":
		r.write(cmd.Dir, cmd.Args[len(cmd.Args)-1]+".gcov", "annotated")
	}
	return nil
}

func (r *fakeRunner) write(dir, name, content string) {
	r.t.Helper()
	require.NoError(r.t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// names returns the program names run so far.
func (r *fakeRunner) names() []string {
	var names []string
	for _, cmd := range r.commands {
		names = append(names, filepath.Base(cmd.Name))
	}
	return names
}

func (r *fakeRunner) reset() {
	r.commands = nil
}

func contains(args []string, want string) bool {
	for _, arg := range args {
		if arg == want {
			return true
		}
	}
	return false
}

// workTree creates a working directory holding src/ sources and fixture
// directories. Keys of sources are file names under src/.
func workTree(t *testing.T, sources map[string]string, fixtures ...string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "src"), 0o755))
	for name, content := range sources {
		require.NoError(t, os.WriteFile(filepath.Join(root, "src", name), []byte(content), 0o644))
	}
	for _, dir := range fixtures {
		require.NoError(t, os.Mkdir(filepath.Join(root, dir), 0o755))
	}
	return root
}

// listTree returns every path under root, relative and slash separated,
// with directories suffixed by "/".
func listTree(t *testing.T, root string) []string {
	t.Helper()
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			rel += "/"
		}
		paths = append(paths, rel)
		return nil
	})
	require.NoError(t, err)
	return paths
}

// listDir returns the entry names of dir.
func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}
