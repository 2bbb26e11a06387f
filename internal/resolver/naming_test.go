package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveName(t *testing.T) {
	tests := []struct {
		filename string
		kind     string
		want     string
	}{
		{"registry_standard.md", "standard", "registry"},
		{"task_standard.md", "standard", "task"},
		{"0.1 registry standard 14 may 2025 0130 CET by AI Assistant.md", "standard", "registry"},
		{"2.3 Incident Standard 1 June 2025 13:20 MSK.md", "standard", "incident"},
		{"Fix Login — 3 марта 2025.md", "todo", "fix_login"},
		{"fix-login.md", "todo", "fix_login"},
		{"standard.md", "standard", "standard"},
		{"README", "", "readme"},
		{"budget plan 1200 USD.md", "", "budget_plan_1200_usd"},
		{"story by the sea.md", "", "story_by_the_sea"},
		{"14 may 2025.md", "", "14_may_2025"},
		{"deploy: rollback.md", "todo", "deploy_rollback"},
		{`ops\runbook.md`, "", "ops_runbook"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			require.Equal(t, tt.want, DeriveName(tt.filename, tt.kind))
		})
	}
}

func TestStripAuthor(t *testing.T) {
	require.Equal(t, "plan 14 may 2025", stripAuthor("plan 14 may 2025 by AI Assistant"))
	require.Equal(t, "plan 14 may 2025 0130 CET", stripAuthor("plan 14 may 2025 0130 CET by Ann"))
	require.Equal(t, "plan_14_may_2025", stripAuthor("plan_14_may_2025_by_ann"))
	require.Equal(t, "stand by me", stripAuthor("stand by me"), "author clause needs a date before it")
	require.Equal(t, "plan by", stripAuthor("plan by"))
}

func TestStripTime(t *testing.T) {
	require.Equal(t, "plan 14 may 2025", stripTime("plan 14 may 2025 0130 CET"))
	require.Equal(t, "plan 14 may 2025", stripTime("plan 14 may 2025 13:20"))
	require.Equal(t, "plan 14 may 2025", stripTime("plan 14 may 2025 9:05 +0300"))
	require.Equal(t, "plan 1200 USD", stripTime("plan 1200 USD"))
	require.Equal(t, "14 may 2025 0130", stripTime("14 may 2025 0130"))
}

func TestStripDate(t *testing.T) {
	require.Equal(t, "plan", stripDate("plan 14 may 2025"))
	require.Equal(t, "plan", stripDate("plan_14_May_2025"))
	require.Equal(t, "plan", stripDate("plan — 3 марта 2025"))
	require.Equal(t, "plan 32 may 2025", stripDate("plan 32 may 2025"))
	require.Equal(t, "14 may 2025", stripDate("14 may 2025"))
}

func TestStripOrdinal(t *testing.T) {
	require.Equal(t, "registry standard", stripOrdinal("0.1 registry standard"))
	require.Equal(t, "registry", stripOrdinal("12. registry"))
	require.Equal(t, "v1 registry", stripOrdinal("v1 registry"))
	require.Equal(t, "42", stripOrdinal("42"))
}

func TestParseLogicalAddress(t *testing.T) {
	tests := []struct {
		in     string
		want   LogicalAddress
		wantOK bool
	}{
		{"abstract://standard:registry", LogicalAddress{"standard", "registry"}, true},
		{"ABSTRACT://Standard:Registry", LogicalAddress{"standard", "Registry"}, true},
		{"standard:registry", LogicalAddress{"standard", "registry"}, true},
		{"todo:fix login", LogicalAddress{"todo", "fix login"}, true},
		{"abstract://standard:", LogicalAddress{}, false},
		{"standard:a/b.md", LogicalAddress{}, false},
		{`C:\Users\a.md`, LogicalAddress{}, false},
		{"C:/Users/a.md", LogicalAddress{}, false},
		{"1kind:name", LogicalAddress{}, false},
		{"docs/a.md", LogicalAddress{}, false},
		{"", LogicalAddress{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLogicalAddress(tt.in)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLogicalAddress_String(t *testing.T) {
	require.Equal(t, "abstract://standard:registry", LogicalAddress{Kind: "standard", Name: "registry"}.String())
}

func TestKindTable_DeepestSegmentWins(t *testing.T) {
	table := compileKinds(DefaultKindRules())

	kind, ok := table.kindOf("[standards .md]/0. core standards/a.md")
	require.True(t, ok)
	require.Equal(t, "standard", kind)

	kind, ok = table.kindOf("[standards .md]/todo/a.md")
	require.True(t, ok)
	require.Equal(t, "todo", kind)

	_, ok = table.kindOf("standards.md")
	require.False(t, ok, "the file itself never decides its kind")
}

func TestLoadKindRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
kinds:
  - keyword: Регламенты
    kind: standard
  - keyword: backlog
    kind: todo
`), 0o644))

	rules, err := LoadKindRules(path)
	require.NoError(t, err)
	require.Equal(t, []KindRule{
		{Keyword: "Регламенты", Kind: "standard"},
		{Keyword: "backlog", Kind: "todo"},
	}, rules)

	kind, ok := compileKinds(rules).kindOf("docs/регламенты/x.md")
	require.True(t, ok)
	require.Equal(t, "standard", kind)
}

func TestLoadKindRules_Invalid(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("kinds: []\n"), 0o644))
	_, err := LoadKindRules(empty)
	require.Error(t, err)

	badKind := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badKind, []byte("kinds:\n  - keyword: x\n    kind: \"no spaces\"\n"), 0o644))
	_, err = LoadKindRules(badKind)
	require.Error(t, err)

	_, err = LoadKindRules(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestMarshalKindRules_LoadsBack(t *testing.T) {
	data, err := MarshalKindRules(DefaultKindRules())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "kinds.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	rules, err := LoadKindRules(path)
	require.NoError(t, err)
	require.Equal(t, DefaultKindRules(), rules)
}
