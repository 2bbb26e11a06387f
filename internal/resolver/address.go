package resolver

import "strings"

// AbstractScheme prefixes the rendered form of a logical address.
const AbstractScheme = "abstract://"

// LogicalAddress is a rename-stable handle for a document: a kind derived
// from the folder it lives in and a name derived from its filename.
type LogicalAddress struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// String renders the address as abstract://kind:name.
func (a LogicalAddress) String() string {
	return AbstractScheme + a.Kind + ":" + a.Name
}

// IsLogicalAddress reports whether s uses the logical address grammar,
// either abstract://kind:name or the bare kind:name form.
func IsLogicalAddress(s string) bool {
	_, ok := ParseLogicalAddress(s)
	return ok
}

// ParseLogicalAddress parses abstract://kind:name or kind:name.
// Kind is lowercased; name is kept as written.
//
// The bare form is deliberately narrow so that ordinary relative paths
// never parse as addresses:
//   - kind starts with a letter and holds only letters, digits, '_' and '-'
//   - name is non-blank and contains no '/', '\' or ':'
func ParseLogicalAddress(s string) (LogicalAddress, bool) {
	rest := s
	if len(rest) >= len(AbstractScheme) && strings.EqualFold(rest[:len(AbstractScheme)], AbstractScheme) {
		rest = rest[len(AbstractScheme):]
	}

	kind, name, ok := strings.Cut(rest, ":")
	if !ok || !validKind(kind) || !validName(name) {
		return LogicalAddress{}, false
	}
	return LogicalAddress{Kind: strings.ToLower(kind), Name: name}, true
}

func validKind(kind string) bool {
	if kind == "" {
		return false
	}
	for i, r := range kind {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '_' || r == '-'):
		default:
			return false
		}
	}
	return true
}

func validName(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	return !strings.ContainsAny(name, `/\:`)
}
