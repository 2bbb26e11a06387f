package resolver

import (
	"path/filepath"
	"sort"
)

// GetAllAliases returns every spelling that must resolve to the same key:
// the canonical key, its absolute forms, the "../"-prefixed form used by
// tools running one directory below the root, the bare filename and, when
// registered, the logical address. Any spelling may be passed in.
//
// An unresolved logical address has no aliases besides itself.
func (e *Engine) GetAllAliases(key string) []string {
	canonical := e.ResolveToCanonical(key)
	if canonical == "" {
		return nil
	}
	if IsLogicalAddress(canonical) {
		return []string{canonical}
	}

	set := map[string]struct{}{
		canonical:         {},
		"../" + canonical: {},
	}
	// "a: b.md" would read back as the logical address a:b.md.
	if name := baseName(canonical); !IsLogicalAddress(name) {
		set[name] = struct{}{}
	}
	for _, root := range e.roots {
		set[joinRoot(root, canonical)] = struct{}{}
	}
	set[filepath.Join(e.osRoot, filepath.FromSlash(canonical))] = struct{}{}

	if addr, ok := e.LogicalAddressOf(canonical); ok {
		set[addr.String()] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for alias := range set {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

func joinRoot(root, key string) string {
	if root == "/" {
		return "/" + key
	}
	return root + "/" + key
}
