package resolver_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/HendryAvila/keysync/internal/resolver"
)

// pathLike draws keys assembled from the fragments real callers produce:
// dot segments, mixed separators, doubled slashes and absolute prefixes.
func pathLike(root string) *rapid.Generator[string] {
	segment := rapid.SampledFrom([]string{
		"docs", "todo", "[standards .md]", "0. core standards", "a.md",
		"registry_standard.md", ".", "..", "", "C:", "x y", "ünï.md",
	})
	sep := rapid.SampledFrom([]string{"/", `\`, "//"})
	prefix := rapid.SampledFrom([]string{"", "./", "../", "../../", "/", root + "/", `C:\`, "abstract://"})

	return rapid.Custom(func(t *rapid.T) string {
		var b strings.Builder
		b.WriteString(prefix.Draw(t, "prefix"))
		n := rapid.IntRange(0, 6).Draw(t, "segments")
		for i := 0; i < n; i++ {
			if i > 0 {
				b.WriteString(sep.Draw(t, "sep"))
			}
			b.WriteString(segment.Draw(t, "segment"))
		}
		return b.String()
	})
}

func TestNormalizeKey_IsIdempotent(t *testing.T) {
	e := newFixtureEngine(t)

	rapid.Check(t, func(t *rapid.T) {
		input := rapid.OneOf(rapid.String(), pathLike(e.Root())).Draw(t, "input")
		once := e.NormalizeKey(input)
		if twice := e.NormalizeKey(once); twice != once {
			t.Fatalf("NormalizeKey(%q) = %q, but NormalizeKey(%q) = %q", input, once, once, twice)
		}
	})
}

func TestNormalizeKey_NeverEscapesRoot(t *testing.T) {
	e := newFixtureEngine(t)

	rapid.Check(t, func(t *rapid.T) {
		key := e.NormalizeKey(pathLike(e.Root()).Draw(t, "input"))
		if strings.HasPrefix(key, "abstract://") {
			return
		}
		for _, seg := range strings.Split(key, "/") {
			if seg == ".." {
				t.Fatalf("key %q escapes the root", key)
			}
		}
		if strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
			t.Fatalf("key %q is not a forward-slashed relative path", key)
		}
	})
}

func TestGetAllAliases_EveryAliasFindsTheKey(t *testing.T) {
	e := newFixtureEngine(t)

	rapid.Check(t, func(t *rapid.T) {
		key := e.NormalizeKey(pathLike(e.Root()).Draw(t, "input"))
		if key == "" || resolver.IsLogicalAddress(key) {
			t.Skip("no path aliases")
		}

		aliases := e.GetAllAliases(key)
		for _, want := range []string{key, e.Root() + "/" + key, "../" + key} {
			if !contains(aliases, want) {
				t.Fatalf("aliases of %q miss %q: %v", key, want, aliases)
			}
		}
		for _, alias := range aliases {
			got, ok := e.FindByAnyKey(alias, []string{key})
			if !ok || got != key {
				t.Fatalf("alias %q of %q not found (got %q, %v)", alias, key, got, ok)
			}
		}
	})
}

func TestGetAllAliases_RegisteredKeysIncludeLogicalAddress(t *testing.T) {
	e := newFixtureEngine(t)

	for _, key := range []string{registryKey, taskStdKey, incidentKey, todoKey, projectTask} {
		addr, ok := e.LogicalAddressOf(key)
		require.True(t, ok, key)
		require.Contains(t, e.GetAllAliases(key), addr.String())
		require.Equal(t, key, e.ResolveToCanonical(addr.String()))
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
