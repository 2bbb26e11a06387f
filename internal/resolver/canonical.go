package resolver

import "strings"

// canonicalize turns any path-like spelling into a root-relative key.
// It never touches the filesystem, so it works for keys of files that do
// not exist. roots are absolute, forward-slashed spellings of the project
// root, tried in order.
//
//   - "abstract://standard:registry" -> unchanged
//   - "./docs//a.md"                 -> "docs/a.md"
//   - "..\\docs\\a.md"               -> "docs/a.md"
//   - "<root>/docs/x/../a.md"        -> "docs/a.md"
//   - "/elsewhere/a.md"              -> "a.md"
func canonicalize(input string, roots []string) string {
	if IsLogicalAddress(input) {
		return input
	}

	p := strings.ReplaceAll(input, `\`, "/")
	p = collapseSlashes(p)
	p = strings.TrimPrefix(p, "./")

	// A relative spelling can clean down to a drive path ("../C:/x"), so
	// repeat until the key is relative. Each pass strips a root prefix.
	for {
		if isAbsolute(p) {
			p = cleanSegments(p, true)
			rel, ok := trimRoot(p, roots)
			if !ok {
				return baseName(p)
			}
			p = rel
		}
		p = cleanSegments(p, false)
		if !hasDrive(p) {
			return p
		}
	}
}

// trimRoot strips the first matching root prefix from an absolute,
// already-cleaned path.
func trimRoot(p string, roots []string) (string, bool) {
	for _, root := range roots {
		if root == "" {
			continue
		}
		if equalPath(p, root) {
			return "", true
		}
		prefix := root
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		if len(p) >= len(prefix) && equalPath(p[:len(prefix)], prefix) {
			return p[len(prefix):], true
		}
	}
	return "", false
}

// cleanSegments resolves "." and ".." lexically. A ".." with nothing left
// to consume is dropped, clamping the path at the root; keys therefore
// never carry an unresolved "..". For absolute paths the leading "/" or
// drive letter is preserved.
func cleanSegments(p string, absolute bool) string {
	var lead string
	if absolute {
		switch {
		case strings.HasPrefix(p, "/"):
			lead, p = "/", p[1:]
		case hasDrive(p):
			lead, p = p[:3], p[3:]
		}
	}

	parts := strings.Split(p, "/")
	out := make([]string, 0, len(parts))
	for _, seg := range parts {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}
	return lead + strings.Join(out, "/")
}

func collapseSlashes(p string) string {
	if !strings.Contains(p, "//") {
		return p
	}
	var b strings.Builder
	b.Grow(len(p))
	prevSlash := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isAbsolute(p string) bool {
	return strings.HasPrefix(p, "/") || hasDrive(p)
}

// hasDrive reports a Windows drive prefix such as "C:/".
func hasDrive(p string) bool {
	if len(p) < 3 || p[1] != ':' || p[2] != '/' {
		return false
	}
	c := p[0]
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// equalPath compares path spellings; drive-letter paths are compared
// case-insensitively since Windows filesystems are.
func equalPath(a, b string) bool {
	if hasDrive(a) || hasDrive(b) {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// baseName returns the final segment of a forward-slashed path.
func baseName(p string) string {
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
