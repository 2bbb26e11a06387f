package server

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/keysync/internal/config"
	"github.com/HendryAvila/keysync/internal/logging"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, "standards", "registry_standard.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("# Registry\n"), 0o644))

	cfg := config.Defaults()
	cfg.Root = root
	cfg.Content.DataDir = t.TempDir()
	return cfg
}

// listTools sends tools/list through the server and returns the raw reply.
func listTools(t *testing.T, cfg config.Config) string {
	t.Helper()
	s, cleanup, err := New(cfg, logging.NewDiscard())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	reply := s.HandleMessage(context.Background(), json.RawMessage(
		`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`,
	))
	data, err := json.Marshal(reply)
	require.NoError(t, err)
	return string(data)
}

func TestNew_RegistersTools(t *testing.T) {
	out := listTools(t, testConfig(t))
	for _, name := range []string{
		"keysync_resolve", "keysync_normalize", "keysync_aliases", "keysync_find",
		"keysync_stats", "keysync_rebuild", "keysync_index",
	} {
		require.Contains(t, out, `"`+name+`"`)
	}
}

func TestNew_ContentStoreFailureDisablesIndex(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cfg.Content.DataDir = filepath.Join(blocker, "data")

	out := listTools(t, cfg)
	require.Contains(t, out, `"keysync_resolve"`)
	require.NotContains(t, out, `"keysync_index"`)
}

func TestNew_ContentDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.Enabled = false

	out := listTools(t, cfg)
	require.NotContains(t, out, `"keysync_index"`)
}

func TestNew_BadRoot(t *testing.T) {
	cfg := testConfig(t)
	cfg.Root = filepath.Join(t.TempDir(), "missing")

	s, cleanup, err := New(cfg, logging.NewDiscard())
	require.Error(t, err)
	require.Nil(t, s)
	require.NotNil(t, cleanup)
	cleanup()
}

func TestNew_BadTracingExporter(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = "carrier-pigeon"

	_, cleanup, err := New(cfg, logging.NewDiscard())
	require.Error(t, err)
	cleanup()
}

func TestNewEngine_UsesKindsFromConfig(t *testing.T) {
	cfg := testConfig(t)
	e, err := NewEngine(cfg, logging.NewDiscard(), nil)
	require.NoError(t, err)
	require.Equal(t, "standards/registry_standard.md", e.ResolveToCanonical("abstract://standard:registry"))
}
