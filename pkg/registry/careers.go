// pkg/registry/careers.go
package registry

import (
	"time"

	"career-workers/internal/common/errors"
	"career-workers/internal/common/validation"
)

// Careers returns the registry entries for every task type the worker
// manager registers.
func Careers(now time.Time) *ActivityRegistry {
	return &ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: now.UTC().Format(time.RFC3339),
		Activities: []Activity{
			{
				ID:                   "parse-career-criteria",
				DisplayName:          "Parse Career Criteria",
				Description:          "Validates and normalizes raw stream, skill and keyword variables into query criteria",
				Category:             "career",
				Version:              "1.0.0",
				TaskType:             "parse-career-criteria",
				ImplementationStatus: StatusCompleted,
				InputSchema:          validation.CriteriaSchema.Document(),
				OutputVariables:      []string{"criteria", "pagination", "criteriaApplied"},
				ErrorCodes:           codes(errors.ErrCodeInvalidCriteria),
				Timeout:              "10s",
				Tags:                 []string{"criteria", "validation"},
			},
			{
				ID:                   "filter-careers",
				DisplayName:          "Filter Careers",
				Description:          "Narrows the career catalog by stream, skills, free text and explore keywords",
				Category:             "career",
				Version:              "1.0.0",
				TaskType:             "filter-careers",
				ImplementationStatus: StatusCompleted,
				OutputVariables:      []string{"careers", "totalMatches", "criteriaApplied", "page", "size", "requestId"},
				ErrorCodes:           codes(errors.ErrCodeInvalidCriteria),
				Timeout:              "10s",
				Tags:                 []string{"catalog", "matching"},
			},
			{
				ID:                   "compute-skill-gap",
				DisplayName:          "Compute Skill Gap",
				Description:          "Lists the required skills of a target career the user does not have yet",
				Category:             "career",
				Version:              "1.0.0",
				TaskType:             "compute-skill-gap",
				ImplementationStatus: StatusCompleted,
				InputSchema:          validation.SkillGapSchema.Document(),
				OutputVariables:      []string{"career", "missingSkills", "matchedSkills", "isQualified"},
				ErrorCodes:           codes(errors.ErrCodeInvalidCriteria, errors.ErrCodeCareerNotFound),
				Timeout:              "5s",
				Tags:                 []string{"catalog", "skills"},
			},
			{
				ID:                   "export-careers",
				DisplayName:          "Export Careers",
				Description:          "Renders matched or named careers as a CSV document",
				Category:             "career",
				Version:              "1.0.0",
				TaskType:             "export-careers",
				ImplementationStatus: StatusCompleted,
				OutputVariables:      []string{"fileName", "contentType", "csv", "rowCount"},
				ErrorCodes:           codes(errors.ErrCodeInvalidCriteria, errors.ErrCodeCareerNotFound, errors.ErrCodeExportFailed),
				Timeout:              "10s",
				Tags:                 []string{"catalog", "export"},
			},
			{
				ID:                   "search-career-index",
				DisplayName:          "Search Career Index",
				Description:          "Ranked full-text search over the Elasticsearch career index",
				Category:             "data-access",
				Version:              "1.0.0",
				TaskType:             "search-career-index",
				ImplementationStatus: StatusCompleted,
				InputSchema:          validation.SearchSchema.Document(),
				OutputVariables:      []string{"hits", "totalHits", "maxScore", "took"},
				ErrorCodes: codes(
					errors.ErrCodeInvalidCriteria,
					errors.ErrCodeElasticsearchConnectionFailed,
					errors.ErrCodeSearchQueryFailed,
					errors.ErrCodeSearchTimeout,
					errors.ErrCodeIndexNotFound,
				),
				Timeout: "30s",
				Retries: errors.GetRetryCount(errors.ErrCodeSearchTimeout),
				Tags:    []string{"search", "elasticsearch"},
			},
		},
	}
}

func codes(cs ...errors.ErrorCode) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, errors.BPMNErrorMapping[c])
	}
	return out
}
