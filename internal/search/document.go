// internal/search/document.go
package search

import (
	"strings"

	"career-workers/internal/models"

	"github.com/google/uuid"
)

// IndexMapping is the index definition for career documents. stream uses a
// lowercase normalizer so the stream filter is case-insensitive.
const IndexMapping = `{
	"settings": {
		"number_of_shards": 1,
		"analysis": {
			"normalizer": {
				"lowercase_normalizer": {"type": "custom", "filter": ["lowercase"]}
			}
		}
	},
	"mappings": {
		"properties": {
			"name":               {"type": "text", "fields": {"raw": {"type": "keyword"}}},
			"stream":             {"type": "keyword", "normalizer": "lowercase_normalizer"},
			"required_skills":    {"type": "text", "fields": {"raw": {"type": "keyword"}}},
			"exams":              {"type": "text"},
			"salary_range":       {"type": "keyword", "index": false},
			"job_demand":         {"type": "keyword"},
			"education_level":    {"type": "text"},
			"work_environment":   {"type": "text"},
			"personality_traits": {"type": "text"},
			"skills_text":        {"type": "text", "index": false},
			"extra":              {"type": "object", "enabled": false},
			"position":           {"type": "integer"}
		}
	}
}`

type document struct {
	Name              string            `json:"name"`
	Stream            string            `json:"stream"`
	RequiredSkills    []string          `json:"required_skills"`
	Exams             string            `json:"exams,omitempty"`
	SalaryRange       string            `json:"salary_range,omitempty"`
	JobDemand         string            `json:"job_demand,omitempty"`
	EducationLevel    string            `json:"education_level,omitempty"`
	WorkEnvironment   string            `json:"work_environment,omitempty"`
	PersonalityTraits string            `json:"personality_traits,omitempty"`
	SkillsText        string            `json:"skills_text,omitempty"`
	Extra             map[string]string `json:"extra,omitempty"`
	Position          int               `json:"position"`
}

var docNamespace = uuid.MustParse("6f1c3c1e-8a0e-4b59-9f43-2d1f7f3e9a10")

// DocumentID derives a stable id from the career name, so re-indexing the same
// catalog overwrites documents instead of duplicating them.
func DocumentID(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	return uuid.NewSHA1(docNamespace, []byte(key)).String()
}

func toDocument(r models.CareerRecord, position int) document {
	return document{
		Name:              r.Name,
		Stream:            r.Stream,
		RequiredSkills:    r.RequiredSkills,
		Exams:             r.Exams,
		SalaryRange:       r.SalaryRange,
		JobDemand:         r.JobDemand,
		EducationLevel:    r.EducationLevel,
		WorkEnvironment:   r.WorkEnvironment,
		PersonalityTraits: r.PersonalityTraits,
		SkillsText:        r.SkillsText,
		Extra:             r.Extra,
		Position:          position,
	}
}

func (d document) record() models.CareerRecord {
	skills := d.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	return models.CareerRecord{
		Name:              d.Name,
		Stream:            d.Stream,
		RequiredSkills:    skills,
		Exams:             d.Exams,
		SalaryRange:       d.SalaryRange,
		JobDemand:         d.JobDemand,
		EducationLevel:    d.EducationLevel,
		WorkEnvironment:   d.WorkEnvironment,
		PersonalityTraits: d.PersonalityTraits,
		SkillsText:        d.SkillsText,
		Extra:             d.Extra,
	}
}
