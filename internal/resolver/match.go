package resolver

import "strings"

// FindByAnyKey returns the candidate that denotes the same entity as query,
// in the candidate's original spelling.
//
// An exact canonical match wins, first in candidate order. Otherwise the
// query's filename is compared with each candidate's filename, and a
// candidate is returned only if exactly one distinct entity carries that
// filename. Ambiguity is not a guess: it reports false.
func (e *Engine) FindByAnyKey(query string, candidates []string) (string, bool) {
	if strings.TrimSpace(query) == "" || len(candidates) == 0 {
		return "", false
	}

	target := e.identity(query)
	if target == "" {
		return "", false
	}

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = e.identity(c)
		if ids[i] == target {
			return c, true
		}
	}

	// An unresolved logical address has no filename to fall back on.
	if IsLogicalAddress(target) {
		return "", false
	}
	name := baseName(target)

	var (
		match    string
		matchID  string
		distinct int
	)
	for i, id := range ids {
		if id == "" || IsLogicalAddress(id) || baseName(id) != name {
			continue
		}
		if distinct > 0 && id == matchID {
			continue
		}
		distinct++
		if distinct > 1 {
			return "", false
		}
		match, matchID = candidates[i], id
	}
	return match, distinct == 1
}

// SameEntity reports whether a FindByAnyKey hit may stand in for query
// when reading. A query that names a path only matches candidates with
// the same identity; a bare filename also accepts a filename match.
func (e *Engine) SameEntity(query, candidate string) bool {
	target := e.identity(query)
	if target == "" {
		return false
	}
	if target == e.identity(candidate) {
		return true
	}
	return !IsLogicalAddress(target) && !strings.Contains(target, "/")
}
