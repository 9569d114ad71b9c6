// internal/models/career.go
package models

import (
	"strings"
	"unicode"
)

// Streams seen in the catalog. The set is open; these are the ones the UI offers.
const (
	StreamScience  = "Science"
	StreamCommerce = "Commerce"
	StreamArts     = "Arts"
	StreamAny      = "Any"
	StreamAll      = "All"
	StreamNotSure  = "Not Sure"
)

// CareerRecord is one row of the career catalog.
type CareerRecord struct {
	Name              string            `json:"name"`
	Stream            string            `json:"stream"`
	RequiredSkills    []string          `json:"requiredSkills"`
	// SkillsText is the skills cell as written in the source, kept for display and export.
	SkillsText        string            `json:"skillsText,omitempty"`
	Exams             string            `json:"exams"`
	SalaryRange       string            `json:"salaryRange,omitempty"`
	JobDemand         string            `json:"jobDemand,omitempty"`
	EducationLevel    string            `json:"educationLevel,omitempty"`
	WorkEnvironment   string            `json:"workEnvironment,omitempty"`
	PersonalityTraits string            `json:"personalityTraits,omitempty"`
	Extra             map[string]string `json:"extra,omitempty"`
}

// HasSkill reports whether token is one of the record's required skills.
// token must already be normalized.
func (r CareerRecord) HasSkill(token string) bool {
	for _, s := range r.RequiredSkills {
		if s == token {
			return true
		}
	}
	return false
}

// DisplaySkills returns the skills as the source wrote them, or the
// normalized tokens comma separated when the source text is unknown.
func (r CareerRecord) DisplaySkills() string {
	if r.SkillsText != "" {
		return r.SkillsText
	}
	return strings.Join(r.RequiredSkills, ", ")
}

// Clone returns a deep copy so callers cannot alias catalog-owned slices.
func (r CareerRecord) Clone() CareerRecord {
	out := r
	out.RequiredSkills = append([]string(nil), r.RequiredSkills...)
	if r.Extra != nil {
		out.Extra = make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// IsAnyStream reports whether a stream value means "no restriction".
func IsAnyStream(stream string) bool {
	switch strings.ToLower(strings.TrimSpace(stream)) {
	case "", "any", "all", "not sure":
		return true
	}
	return false
}

// NormalizeSkill trims and lower-cases a skill token.
func NormalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CleanSkillLabel strips a leading decoration such as "💻 " from a UI skill label
// and normalizes what remains. Only symbols, emoji joiners and spaces are
// stripped, so labels like ".NET" keep their punctuation.
func CleanSkillLabel(s string) string {
	return NormalizeSkill(strings.TrimLeftFunc(s, isDecoration))
}

func isDecoration(r rune) bool {
	switch {
	case unicode.IsSymbol(r), unicode.IsSpace(r):
		return true
	case unicode.Is(unicode.Variation_Selector, r):
		return true
	case r == '\u200d', r == '\u20e3': // zero width joiner, combining keycap
		return true
	}
	return false
}

// NormalizeSkills normalizes every token, drops empties and duplicates and keeps
// first-seen order. The result is never nil.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		token := NormalizeSkill(s)
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		out = append(out, token)
	}
	return out
}

// SplitSkills parses a comma separated skills cell into normalized tokens.
func SplitSkills(cell string) []string {
	return NormalizeSkills(strings.Split(cell, ","))
}
