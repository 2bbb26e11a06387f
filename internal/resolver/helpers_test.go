package resolver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/keysync/internal/resolver"
)

const (
	registryKey  = "[standards .md]/0. core standards/registry_standard.md"
	taskStdKey   = "[standards .md]/0. core standards/task_standard.md"
	incidentKey  = "[standards .md]/1. process standards/0.1 incident standard 14 may 2025 0130 CET by AI Assistant.md"
	todoKey      = "todo/fix login.md"
	projectTask  = "projects/alpha/task_standard.md"
	untrackedKey = "notes/readme.md"
)

// fixtureFiles mirrors the layout of the advising platform's document tree.
var fixtureFiles = []string{
	registryKey,
	taskStdKey,
	incidentKey,
	todoKey,
	projectTask,
	untrackedKey,
	".git/standards/ignored.md",
	"node_modules/pkg/standards/ignored.md",
}

// writeTree creates files (with forward-slashed keys) under root.
func writeTree(t testing.TB, root string, keys ...string) {
	t.Helper()
	for _, key := range keys {
		path := filepath.Join(root, filepath.FromSlash(key))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("# "+filepath.Base(key)+"\n"), 0o644))
	}
}

// newFixtureEngine creates an engine over a fresh copy of the fixture tree.
func newFixtureEngine(t testing.TB, opts ...resolver.Option) *resolver.Engine {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, fixtureFiles...)
	e, err := resolver.New(root, opts...)
	require.NoError(t, err)
	return e
}
