package scoring

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed skills.yaml
var defaultSkills []byte

// SkillTable maps a need category to the volunteer skills relevant to it.
// Lookups are case-insensitive. Unknown categories have no relevant skills.
type SkillTable struct {
	categories map[string][]string
}

type skillFile struct {
	Categories map[string][]string `yaml:"categories"`
}

// DefaultSkills returns the table shipped with the binary.
func DefaultSkills() (*SkillTable, error) {
	return ParseSkills(defaultSkills)
}

// LoadSkills reads a YAML skill table from path.
func LoadSkills(path string) (*SkillTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading skill table %q: %w", path, err)
	}

	table, err := ParseSkills(data)
	if err != nil {
		return nil, fmt.Errorf("skill table %q: %w", path, err)
	}

	return table, nil
}

func ParseSkills(data []byte) (*SkillTable, error) {
	var file skillFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse skills: %w", err)
	}
	return NewSkillTable(file.Categories), nil
}

func NewSkillTable(categories map[string][]string) *SkillTable {
	table := &SkillTable{categories: make(map[string][]string, len(categories))}
	for category, skills := range categories {
		key := normalize(category)
		if key == "" {
			continue
		}
		normalized := make([]string, 0, len(skills))
		for _, s := range skills {
			if s = normalize(s); s != "" {
				normalized = append(normalized, s)
			}
		}
		table.categories[key] = normalized
	}
	return table
}

// Relevant returns the skills relevant to category.
func (t *SkillTable) Relevant(category string) []string {
	if t == nil {
		return nil
	}
	return t.categories[normalize(category)]
}

// Match returns the volunteer skills relevant to category, in the volunteer's order, without duplicates.
func (t *SkillTable) Match(category string, skills []string) []string {
	relevant := t.Relevant(category)
	if len(relevant) == 0 {
		return nil
	}

	var matched []string
	seen := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		s := normalize(skill)
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		for _, r := range relevant {
			if r == s {
				matched = append(matched, s)
				break
			}
		}
	}
	return matched
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
