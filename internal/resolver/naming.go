package resolver

import (
	"path"
	"strings"
	"unicode"
)

// DeriveName turns a filename into the name half of a logical address.
// The trims run in a fixed order, each one optional:
//
//	"0.1 registry standard 14 may 2025 0130 CET by AI Assistant.md"
//	  extension  -> "0.1 registry standard 14 may 2025 0130 CET by AI Assistant"
//	  author     -> "0.1 registry standard 14 may 2025 0130 CET"
//	  time + tz  -> "0.1 registry standard 14 may 2025"
//	  date       -> "0.1 registry standard"
//	  ordinal    -> "registry standard"
//	  normalize  -> "registry_standard"
//	  kind token -> "registry" (when kind is "standard")
func DeriveName(filename, kind string) string {
	name := stripExtension(filename)
	name = stripAuthor(name)
	name = stripTime(name)
	name = stripDate(name)
	name = stripOrdinal(name)
	name = normalizeName(name)

	if kind != "" {
		if trimmed, ok := strings.CutSuffix(name, "_"+normalizeName(kind)); ok && trimmed != "" {
			name = trimmed
		}
	}
	return name
}

func stripExtension(filename string) string {
	ext := path.Ext(filename)
	if ext == "" || ext == filename || strings.ContainsRune(ext, ' ') {
		return filename
	}
	return strings.TrimSuffix(filename, ext)
}

// stripAuthor removes a trailing " by <author>" clause.
func stripAuthor(s string) string {
	lower := strings.ToLower(s)
	i := max(strings.LastIndex(lower, " by "), strings.LastIndex(lower, "_by_"))
	if i <= 0 || strings.TrimSpace(s[i+4:]) == "" {
		return s
	}
	rest := trimSeparators(s[:i])
	if !endsDated(tokenize(rest).words(rest)) {
		return s
	}
	return rest
}

// endsDated reports whether words end with a date, optionally followed by
// a time and zone. Only then is a trailing author clause part of the suffix.
func endsDated(words []string) bool {
	n := len(words)
	switch {
	case looksDated(words):
		return true
	case n >= 4 && isClock(words[n-1]) && looksDated(words[:n-1]):
		return true
	case n >= 5 && isZone(words[n-1]) && isClock(words[n-2]) && looksDated(words[:n-2]):
		return true
	}
	return false
}

// stripTime removes a trailing "<time>[ <tz>]" clause such as "0130 CET"
// or "13:20". It only applies when a date precedes it, so plain numbers at
// the end of a title survive.
func stripTime(s string) string {
	toks := tokenize(s)
	n := len(toks)
	words := toks.words(s)
	if n >= 6 && isZone(words[n-1]) && isClock(words[n-2]) && looksDated(words[:n-2]) {
		return trimSeparators(s[:toks[n-2].start])
	}
	if n >= 5 && isClock(words[n-1]) && looksDated(words[:n-1]) {
		return trimSeparators(s[:toks[n-1].start])
	}
	return s
}

// stripDate removes a trailing "<day> <month> <year>" clause together with
// the separator before it. A name made only of a date is left alone.
func stripDate(s string) string {
	toks := tokenize(s)
	n := len(toks)
	if n < 4 || !looksDated(toks.words(s)) {
		return s
	}
	return trimSeparators(s[:toks[n-3].start])
}

type span struct{ start, end int }

type spans []span

func (t spans) words(s string) []string {
	out := make([]string, len(t))
	for i, sp := range t {
		out[i] = s[sp.start:sp.end]
	}
	return out
}

// tokenize splits s on the separators allowed between suffix clauses and
// keeps byte offsets so callers can cut the original spelling.
func tokenize(s string) spans {
	var out spans
	start := -1
	for i, r := range s {
		if isSeparator(r) {
			if start >= 0 {
				out = append(out, span{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, span{start, len(s)})
	}
	return out
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '_' || r == '—' || r == '–' || r == ','
}

func trimSeparators(s string) string {
	return strings.TrimRightFunc(s, func(r rune) bool {
		return isSeparator(r) || r == '-'
	})
}

// stripOrdinal removes a leading section number such as "0.1 " or "12. ".
func stripOrdinal(s string) string {
	head, tail, ok := strings.Cut(s, " ")
	if !ok || head == "" || strings.TrimSpace(tail) == "" {
		return s
	}
	for _, r := range head {
		if r != '.' && !unicode.IsDigit(r) {
			return s
		}
	}
	// "14 may 2025" is a date, not a numbered title.
	if words := tokenize(s).words(s); len(words) == 3 && looksDated(words) {
		return s
	}
	return strings.TrimSpace(tail)
}

// normalizeName lowercases and joins words with single underscores.
// Address delimiters count as separators so every name parses back.
func normalizeName(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.' || r == ':' || r == '\\' || r == '/':
			pendingSep = b.Len() > 0
		default:
			if pendingSep {
				b.WriteByte('_')
				pendingSep = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// looksDated reports whether the last three fields read as day month year.
func looksDated(fields []string) bool {
	n := len(fields)
	if n < 3 {
		return false
	}
	return isDay(fields[n-3]) && isMonth(fields[n-2]) && isYear(fields[n-1])
}

func isDay(s string) bool {
	if len(s) == 0 || len(s) > 2 || !allDigits(s) {
		return false
	}
	d := atoi(s)
	return d >= 1 && d <= 31
}

func isYear(s string) bool {
	return len(s) == 4 && allDigits(s)
}

// isClock accepts HHMM, HH:MM and H:MM.
func isClock(s string) bool {
	if hh, mm, ok := strings.Cut(s, ":"); ok {
		return len(hh) >= 1 && len(hh) <= 2 && len(mm) == 2 && allDigits(hh) && allDigits(mm)
	}
	return len(s) == 4 && allDigits(s)
}

// isZone accepts short upper-case abbreviations (CET, MSK, UTC) and
// numeric offsets (+03, +0300).
func isZone(s string) bool {
	if len(s) >= 2 && (s[0] == '+' || s[0] == '-') {
		return allDigits(s[1:]) && len(s) <= 5
	}
	if len(s) < 2 || len(s) > 5 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

var months = map[string]struct{}{}

func init() {
	for _, m := range []string{
		"january", "february", "march", "april", "may", "june", "july",
		"august", "september", "october", "november", "december",
		"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
		"января", "февраля", "марта", "апреля", "мая", "июня", "июля",
		"августа", "сентября", "октября", "ноября", "декабря",
		"январь", "февраль", "март", "апрель", "май", "июнь", "июль",
		"август", "сентябрь", "октябрь", "ноябрь", "декабрь",
	} {
		months[m] = struct{}{}
	}
}

func isMonth(s string) bool {
	_, ok := months[strings.ToLower(s)]
	return ok
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
