// internal/workers/career/compute-skill-gap/models.go
package computeskillgap

import "career-workers/internal/models"

type Input struct {
	TargetCareer string `json:"targetCareer"`
	// UserSkills is a JSON array or a comma separated string.
	UserSkills interface{} `json:"userSkills"`
}

type Output struct {
	Career        models.CareerRecord `json:"career"`
	MissingSkills []string            `json:"missingSkills"`
	MatchedSkills []string            `json:"matchedSkills"`
	IsQualified   bool                `json:"isQualified"`
}
