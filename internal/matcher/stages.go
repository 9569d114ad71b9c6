// internal/matcher/stages.go
package matcher

import (
	"strings"

	"career-workers/internal/models"

	"github.com/ecodeclub/ekit/slice"
)

// Stage is one narrowing predicate.
type Stage func(models.CareerRecord) bool

// StreamStage keeps records of the given stream, ignoring case.
func StreamStage(stream string) Stage {
	want := strings.ToLower(strings.TrimSpace(stream))
	return func(r models.CareerRecord) bool {
		return strings.ToLower(strings.TrimSpace(r.Stream)) == want
	}
}

// SkillStage keeps records whose required skills contain every user skill
// (MatchAll) or at least one of them (MatchAny). skills must be normalized.
func SkillStage(skills []string, mode models.SkillMatchMode) Stage {
	if mode == models.MatchAny {
		return func(r models.CareerRecord) bool {
			for _, s := range skills {
				if slice.Contains(r.RequiredSkills, s) {
					return true
				}
			}
			return false
		}
	}
	return func(r models.CareerRecord) bool {
		for _, s := range skills {
			if !slice.Contains(r.RequiredSkills, s) {
				return false
			}
		}
		return true
	}
}

// FreeTextStage keeps records whose name or exams contain text, ignoring case.
func FreeTextStage(text string) Stage {
	needle := strings.ToLower(strings.TrimSpace(text))
	return func(r models.CareerRecord) bool {
		return strings.Contains(strings.ToLower(r.Name), needle) ||
			strings.Contains(strings.ToLower(r.Exams), needle)
	}
}

// ExamKeywordStage keeps records whose exams contain keyword, ignoring case.
func ExamKeywordStage(keyword string) Stage {
	return containsStage(keyword, func(r models.CareerRecord) string { return r.Exams })
}

// SkillKeywordStage keeps records with a required skill containing keyword.
func SkillKeywordStage(keyword string) Stage {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	return func(r models.CareerRecord) bool {
		_, ok := slice.Find(r.RequiredSkills, func(s string) bool {
			return strings.Contains(s, needle)
		})
		return ok
	}
}

// TraitKeywordStage keeps records whose personality traits contain keyword.
func TraitKeywordStage(keyword string) Stage {
	return containsStage(keyword, func(r models.CareerRecord) string { return r.PersonalityTraits })
}

func containsStage(keyword string, field func(models.CareerRecord) string) Stage {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	return func(r models.CareerRecord) bool {
		return strings.Contains(strings.ToLower(field(r)), needle)
	}
}

// StagesFor builds the stages a criteria value asks for, in application
// order: stream, skills, free text, then the explore keywords. Criteria
// fields that are empty contribute no stage.
func StagesFor(c models.QueryCriteria, defaultMode models.SkillMatchMode) []Stage {
	stages := make([]Stage, 0, 6)
	if c.HasStream() {
		stages = append(stages, StreamStage(c.Stream))
	}
	if len(c.Skills) > 0 {
		mode := c.MatchMode
		if mode == "" {
			mode = defaultMode
		}
		stages = append(stages, SkillStage(c.Skills, mode))
	}
	if strings.TrimSpace(c.FreeText) != "" {
		stages = append(stages, FreeTextStage(c.FreeText))
	}
	if strings.TrimSpace(c.ExamKeyword) != "" {
		stages = append(stages, ExamKeywordStage(c.ExamKeyword))
	}
	if strings.TrimSpace(c.SkillKeyword) != "" {
		stages = append(stages, SkillKeywordStage(c.SkillKeyword))
	}
	if strings.TrimSpace(c.TraitKeyword) != "" {
		stages = append(stages, TraitKeywordStage(c.TraitKeyword))
	}
	return stages
}

// Narrow applies stages one after another. Each stage keeps the order of its input.
func Narrow(records []models.CareerRecord, stages ...Stage) []models.CareerRecord {
	out := records
	for _, stage := range stages {
		out = slice.FindAll(out, func(r models.CareerRecord) bool { return stage(r) })
	}
	if out == nil {
		return []models.CareerRecord{}
	}
	return out
}
