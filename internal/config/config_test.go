package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/HendryAvila/keysync/internal/resolver"
)

// isolate runs the test from an empty working directory with HOME pointed
// at a temp dir, so no real config file leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	return dir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

// --- Defaults ---

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root != "." {
		t.Errorf("Root = %q, want .", cfg.Root)
	}
	if cfg.ResolveTimeout != 2*time.Second {
		t.Errorf("ResolveTimeout = %s, want 2s", cfg.ResolveTimeout)
	}
	if len(cfg.Kinds) != len(resolver.DefaultKindRules()) {
		t.Errorf("Kinds = %v, want defaults", cfg.Kinds)
	}
	if !cfg.Content.Enabled {
		t.Error("content store should be enabled by default")
	}
	if cfg.Log.Level != "info" || cfg.Tracing.Enabled {
		t.Errorf("log/tracing defaults wrong: %+v %+v", cfg.Log, cfg.Tracing)
	}
}

// --- File lookup ---

func TestLoad_LocalConfigFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, LocalConfigPath), `
root: /srv/docs
resolve_timeout: 5s
kinds:
  - keyword: регламенты
    kind: standard
log:
  level: debug
  format: json
cache:
  ttl: 1m
`)

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root != "/srv/docs" {
		t.Errorf("Root = %q", cfg.Root)
	}
	if cfg.ResolveTimeout != 5*time.Second {
		t.Errorf("ResolveTimeout = %s", cfg.ResolveTimeout)
	}
	if len(cfg.Kinds) != 1 || cfg.Kinds[0].Keyword != "регламенты" {
		t.Errorf("Kinds = %+v", cfg.Kinds)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Cache.TTL != time.Minute {
		t.Errorf("Cache.TTL = %s", cfg.Cache.TTL)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	isolate(t)
	if _, err := Load(viper.New(), "/nonexistent/keysync.yaml"); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, LocalConfigPath), "root: /from/file\n")
	t.Setenv("KEYSYNC_ROOT", "/from/env")
	t.Setenv("KEYSYNC_LOG_LEVEL", "warn")

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root != "/from/env" {
		t.Errorf("Root = %q, want env value", cfg.Root)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "resolve_timeout: -1s\n")

	if _, err := Load(viper.New(), path); err == nil {
		t.Fatal("expected validation error for negative timeout")
	}
}

// --- Kind rules ---

func TestKindRules_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kinds.yaml")
	writeFile(t, path, "kinds:\n  - keyword: backlog\n    kind: todo\n")

	cfg := Defaults()
	cfg.KindsFile = path
	rules, err := cfg.KindRules()
	if err != nil {
		t.Fatalf("KindRules: %v", err)
	}
	if len(rules) != 1 || rules[0].Kind != "todo" {
		t.Errorf("rules = %+v", rules)
	}

	opts, err := cfg.ResolverOptions()
	if err != nil || len(opts) != 2 {
		t.Errorf("ResolverOptions = %d opts, err %v", len(opts), err)
	}
}

// --- WriteDefault ---

func TestWriteDefault_LoadsBack(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, LocalConfigPath)

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if err := WriteDefault(path); err == nil {
		t.Error("second WriteDefault should refuse to overwrite")
	}

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Defaults()
	if cfg.ResolveTimeout != want.ResolveTimeout || cfg.Cache.TTL != want.Cache.TTL {
		t.Errorf("durations did not survive: %+v", cfg)
	}
	if len(cfg.Kinds) != len(want.Kinds) {
		t.Errorf("kinds did not survive: %+v", cfg.Kinds)
	}
}
