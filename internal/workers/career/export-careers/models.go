// internal/workers/career/export-careers/models.go
package exportcareers

import "career-workers/internal/models"

// Input selects the rows to export: explicit career names when given,
// otherwise every career matching Criteria.
type Input struct {
	Criteria    models.QueryCriteria `json:"criteria"`
	CareerNames []string             `json:"careerNames,omitempty"`
}

type Output struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	CSV         string `json:"csv"`
	RowCount    int    `json:"rowCount"`
}
