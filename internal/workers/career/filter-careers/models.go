// internal/workers/career/filter-careers/models.go
package filtercareers

import "career-workers/internal/models"

// Input is usually the output of parse-career-criteria.
type Input struct {
	Criteria   models.QueryCriteria `json:"criteria"`
	Pagination *models.Pagination   `json:"pagination,omitempty"`
	RequestID  string               `json:"requestId,omitempty"`
}

type Output struct {
	Careers         []models.CareerRecord `json:"careers"`
	TotalMatches    int                   `json:"totalMatches"`
	CriteriaApplied bool                  `json:"criteriaApplied"`
	Page            int                   `json:"page"`
	Size            int                   `json:"size"`
	RequestID       string                `json:"requestId"`
}
