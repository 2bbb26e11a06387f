package content

import (
	"strings"
)

// Output format constants for rendered documents.
//   - full: complete body plus metadata
//   - summary: title, headings, size and revision only
//   - checklist: markdown task items with their done flags
const (
	FormatFull      = "full"
	FormatSummary   = "summary"
	FormatChecklist = "checklist"
)

// FormatValues returns the enum values for MCP tool definitions.
func FormatValues() []string {
	return []string{FormatFull, FormatSummary, FormatChecklist}
}

// ParseFormat normalizes a format string, defaulting to "full" for empty
// or unrecognized values.
func ParseFormat(s string) string {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case FormatSummary, FormatChecklist:
		return f
	default:
		return FormatFull
	}
}

// ChecklistItem is one "- [ ]" or "- [x]" line of a document.
type ChecklistItem struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Render shapes doc for the requested format.
func Render(doc *Document, format string) map[string]any {
	out := map[string]any{
		"key":   doc.Key,
		"title": doc.Title,
	}
	if doc.Address != "" {
		out["address"] = doc.Address
	}

	switch ParseFormat(format) {
	case FormatSummary:
		out["headings"] = Headings(doc.Body)
		out["size"] = doc.Size
		out["revision"] = doc.Revision
	case FormatChecklist:
		items := Checklist(doc.Body)
		done := 0
		for _, it := range items {
			if it.Done {
				done++
			}
		}
		out["items"] = items
		out["total"] = len(items)
		out["done"] = done
	default:
		out["body"] = doc.Body
		out["size"] = doc.Size
		out["checksum"] = doc.Checksum
		out["revision"] = doc.Revision
		out["indexed_at"] = doc.IndexedAt
		out["updated_at"] = doc.UpdatedAt
	}
	return out
}

// Headings returns the markdown headings of body, outside fenced code.
func Headings(body string) []string {
	headings := []string{}
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence || !strings.HasPrefix(trimmed, "#") {
			continue
		}
		text := strings.TrimLeft(trimmed, "#")
		if text == "" || text[0] != ' ' {
			continue
		}
		headings = append(headings, strings.TrimSpace(text))
	}
	return headings
}

// Checklist returns the task items of body in document order.
func Checklist(body string) []ChecklistItem {
	items := []ChecklistItem{}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		for _, bullet := range []string{"- ", "* ", "+ "} {
			rest, ok := strings.CutPrefix(trimmed, bullet)
			if !ok || len(rest) < 3 || rest[0] != '[' || rest[2] != ']' {
				continue
			}
			switch rest[1] {
			case ' ':
				items = append(items, ChecklistItem{Text: strings.TrimSpace(rest[3:])})
			case 'x', 'X':
				items = append(items, ChecklistItem{Text: strings.TrimSpace(rest[3:]), Done: true})
			}
			break
		}
	}
	return items
}
