// internal/models/criteria.go
package models

import "strings"

// SkillMatchMode selects how the skill stage compares a record against the user's skills.
type SkillMatchMode string

const (
	// MatchAll keeps records whose required skills contain every user skill.
	MatchAll SkillMatchMode = "all"
	// MatchAny keeps records sharing at least one skill with the user.
	MatchAny SkillMatchMode = "any"
)

// ParseSkillMatchMode accepts "all"/"any" in any case. Empty returns def.
func ParseSkillMatchMode(s string, def SkillMatchMode) (SkillMatchMode, bool) {
	switch SkillMatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return def, true
	case MatchAll:
		return MatchAll, true
	case MatchAny:
		return MatchAny, true
	}
	return "", false
}

// QueryCriteria is one user's query. Skills must be normalized; use
// NewQueryCriteria when building from raw input.
type QueryCriteria struct {
	Stream    string         `json:"stream,omitempty"`
	Skills    []string       `json:"skills"`
	FreeText  string         `json:"freeText,omitempty"`
	MatchMode SkillMatchMode `json:"skillMatchMode,omitempty"`

	ExamKeyword  string `json:"examKeyword,omitempty"`
	SkillKeyword string `json:"skillKeyword,omitempty"`
	TraitKeyword string `json:"traitKeyword,omitempty"`
}

// NewQueryCriteria builds criteria from raw user input, cleaning decorated skill labels.
func NewQueryCriteria(stream string, skills []string, freeText string) QueryCriteria {
	cleaned := make([]string, 0, len(skills))
	for _, s := range skills {
		cleaned = append(cleaned, CleanSkillLabel(s))
	}
	return QueryCriteria{
		Stream:   strings.TrimSpace(stream),
		Skills:   NormalizeSkills(cleaned),
		FreeText: strings.TrimSpace(freeText),
	}
}

// HasStream reports whether the criteria restrict by stream.
func (c QueryCriteria) HasStream() bool {
	return !IsAnyStream(c.Stream)
}

// IsEmpty reports whether no stage would narrow the catalog.
func (c QueryCriteria) IsEmpty() bool {
	return !c.HasStream() &&
		len(c.Skills) == 0 &&
		strings.TrimSpace(c.FreeText) == "" &&
		strings.TrimSpace(c.ExamKeyword) == "" &&
		strings.TrimSpace(c.SkillKeyword) == "" &&
		strings.TrimSpace(c.TraitKeyword) == ""
}

// Pagination is 1-based.
type Pagination struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Bounds returns the half-open slice range of the page within total items.
// Out of range values are clamped to the defaults.
func (p Pagination) Bounds(total int) (int, int) {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	// Compare before multiplying so huge page numbers cannot overflow.
	start := total
	if p.Page-1 <= total/p.Size {
		start = min((p.Page-1)*p.Size, total)
	}
	end := total
	if p.Size < total-start {
		end = start + p.Size
	}
	return start, end
}

// MatchResult is the outcome of one filter query.
type MatchResult struct {
	Careers         []CareerRecord `json:"careers"`
	TotalMatches    int            `json:"totalMatches"`
	CriteriaApplied bool           `json:"criteriaApplied"`
}
