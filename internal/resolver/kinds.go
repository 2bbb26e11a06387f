package resolver

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// KindRule maps a folder keyword to a logical kind. A directory segment
// matches when it contains Keyword, case-insensitively.
type KindRule struct {
	Keyword string `yaml:"keyword" mapstructure:"keyword" json:"keyword"`
	Kind    string `yaml:"kind" mapstructure:"kind" json:"kind"`
}

// kindFile is the on-disk shape of a kind table.
type kindFile struct {
	Kinds []KindRule `yaml:"kinds"`
}

// DefaultKindRules returns the folder conventions of the advising
// platform's document tree. Order matters: the first matching rule wins,
// so more specific keywords come first.
func DefaultKindRules() []KindRule {
	return []KindRule{
		{Keyword: "core standards", Kind: "standard"},
		{Keyword: "standards", Kind: "standard"},
		{Keyword: "todo", Kind: "todo"},
		{Keyword: "incidents", Kind: "incident"},
		{Keyword: "tasks", Kind: "task"},
		{Keyword: "projects", Kind: "project"},
	}
}

// LoadKindRules reads a YAML kind table:
//
//	kinds:
//	  - keyword: core standards
//	    kind: standard
func LoadKindRules(path string) ([]KindRule, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("resolver: read kind rules: %w", err)
	}

	var f kindFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("resolver: parse kind rules %s: %w", path, err)
	}
	if err := ValidateKindRules(f.Kinds); err != nil {
		return nil, fmt.Errorf("resolver: kind rules %s: %w", path, err)
	}
	return f.Kinds, nil
}

// MarshalKindRules renders rules in the format LoadKindRules reads.
func MarshalKindRules(rules []KindRule) ([]byte, error) {
	return yaml.Marshal(kindFile{Kinds: rules})
}

// ValidateKindRules rejects empty keywords and kinds that could not appear
// in a logical address.
func ValidateKindRules(rules []KindRule) error {
	if len(rules) == 0 {
		return fmt.Errorf("no kind rules defined")
	}
	for i, r := range rules {
		if strings.TrimSpace(r.Keyword) == "" {
			return fmt.Errorf("rule %d: keyword cannot be empty", i)
		}
		if !validKind(r.Kind) {
			return fmt.Errorf("rule %d: invalid kind %q", i, r.Kind)
		}
	}
	return nil
}

// kindTable is the compiled, lowercase form of the rules.
type kindTable []KindRule

func compileKinds(rules []KindRule) kindTable {
	t := make(kindTable, 0, len(rules))
	for _, r := range rules {
		t = append(t, KindRule{
			Keyword: strings.ToLower(strings.TrimSpace(r.Keyword)),
			Kind:    strings.ToLower(r.Kind),
		})
	}
	return t
}

// kindOf returns the kind of a root-relative file key. The deepest
// directory segment matching any rule decides.
func (t kindTable) kindOf(key string) (string, bool) {
	dirs := strings.Split(key, "/")
	dirs = dirs[:len(dirs)-1]
	for i := len(dirs) - 1; i >= 0; i-- {
		seg := strings.ToLower(dirs[i])
		for _, r := range t {
			if strings.Contains(seg, r.Keyword) {
				return r.Kind, true
			}
		}
	}
	return "", false
}
