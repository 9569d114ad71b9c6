// internal/workers/career/parse-career-criteria/models.go
package parsecareercriteria

import "career-workers/internal/models"

// Input is the raw process variables: stream, skills (array or comma
// separated string), freeText, examKeyword, skillKeyword, traitKeyword,
// skillMatchMode and pagination.
type Input map[string]interface{}

type Output struct {
	Criteria        models.QueryCriteria `json:"criteria"`
	Pagination      models.Pagination    `json:"pagination"`
	CriteriaApplied bool                 `json:"criteriaApplied"`
}
