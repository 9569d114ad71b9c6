// internal/criteria/parser.go
package criteria

import (
	"fmt"
	"strconv"
	"strings"

	"career-workers/internal/common/errors"
	"career-workers/internal/common/validation"
	"career-workers/internal/models"
)

// Parsed is a validated query plus the requested page.
type Parsed struct {
	Criteria   models.QueryCriteria `json:"criteria"`
	Pagination models.Pagination    `json:"pagination"`
}

// Parser turns raw process variables or query parameters into criteria.
type Parser struct {
	defaultMode     models.SkillMatchMode
	defaultPageSize int
	maxPageSize     int
}

// NewParser builds a Parser. Zero values fall back to the package defaults.
func NewParser(defaultMode models.SkillMatchMode, defaultPageSize, maxPageSize int) *Parser {
	if defaultMode == "" {
		defaultMode = models.MatchAll
	}
	if maxPageSize < 1 || maxPageSize > models.MaxPageSize {
		maxPageSize = models.MaxPageSize
	}
	if defaultPageSize < 1 || defaultPageSize > maxPageSize {
		defaultPageSize = models.DefaultPageSize
		if defaultPageSize > maxPageSize {
			defaultPageSize = maxPageSize
		}
	}
	return &Parser{defaultMode: defaultMode, defaultPageSize: defaultPageSize, maxPageSize: maxPageSize}
}

func (p *Parser) DefaultMode() models.SkillMatchMode {
	return p.defaultMode
}

// Parse validates raw against the criteria schema and normalizes it.
// Sizes above the maximum are capped; a page or size below 1 and an
// unknown skill match mode are INVALID_CRITERIA.
func (p *Parser) Parse(raw map[string]interface{}) (Parsed, error) {
	if raw == nil {
		raw = map[string]interface{}{}
	}

	result, err := validation.CriteriaSchema.Validate(raw)
	if err != nil {
		return Parsed{}, errors.NewInvalidCriteriaError(err.Error())
	}
	if !result.Valid {
		return Parsed{}, errors.NewInvalidCriteriaError(result.Summary())
	}

	c := models.NewQueryCriteria(
		stringField(raw, "stream"),
		ParseStringArray(raw["skills"]),
		stringField(raw, "freeText"),
	)
	c.ExamKeyword = stringField(raw, "examKeyword")
	c.SkillKeyword = stringField(raw, "skillKeyword")
	c.TraitKeyword = stringField(raw, "traitKeyword")

	mode, ok := models.ParseSkillMatchMode(stringField(raw, "skillMatchMode"), p.defaultMode)
	if !ok {
		return Parsed{}, errors.NewInvalidCriteriaError(
			fmt.Sprintf("skillMatchMode: must be %q or %q", models.MatchAll, models.MatchAny))
	}
	c.MatchMode = mode

	page, err := p.parsePagination(raw["pagination"])
	if err != nil {
		return Parsed{}, err
	}

	return Parsed{Criteria: c, Pagination: page}, nil
}

func (p *Parser) parsePagination(raw interface{}) (models.Pagination, error) {
	page := models.Pagination{Page: models.DefaultPage, Size: p.defaultPageSize}

	pgMap, ok := raw.(map[string]interface{})
	if !ok {
		return page, nil
	}

	if pageRaw, exists := pgMap["page"]; exists && pageRaw != nil {
		n, err := ParseInt(pageRaw)
		if err != nil || n < 1 {
			return page, errors.NewInvalidCriteriaError(fmt.Sprintf("pagination.page: must be an integer >= 1, got %v", pageRaw))
		}
		page.Page = n
	}

	if sizeRaw, exists := pgMap["size"]; exists && sizeRaw != nil {
		n, err := ParseInt(sizeRaw)
		if err != nil || n < 1 {
			return page, errors.NewInvalidCriteriaError(fmt.Sprintf("pagination.size: must be an integer >= 1, got %v", sizeRaw))
		}
		if n > p.maxPageSize {
			n = p.maxPageSize
		}
		page.Size = n
	}

	return page, nil
}

func stringField(raw map[string]interface{}, key string) string {
	if s, ok := raw[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// ParseStringArray accepts a comma separated string or a JSON array and
// returns the trimmed, non-empty items. The result is never nil.
func ParseStringArray(raw interface{}) []string {
	result := []string{}

	add := func(s string) {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	switch v := raw.(type) {
	case string:
		for _, s := range strings.Split(v, ",") {
			add(s)
		}
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	case []string:
		for _, s := range v {
			add(s)
		}
	}

	return result
}

// ParseInt accepts JSON numbers, ints and numeric strings.
func ParseInt(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	}
	return 0, fmt.Errorf("cannot parse %T as integer", raw)
}

// Normalize re-applies label cleaning and mode parsing to criteria that
// arrive already structured, e.g. written straight into process variables.
func Normalize(c models.QueryCriteria) (models.QueryCriteria, error) {
	if c.MatchMode != "" {
		mode, ok := models.ParseSkillMatchMode(string(c.MatchMode), "")
		if !ok {
			return c, errors.NewInvalidCriteriaError(fmt.Sprintf("skillMatchMode: unknown mode %q", c.MatchMode))
		}
		c.MatchMode = mode
	}
	n := models.NewQueryCriteria(c.Stream, c.Skills, c.FreeText)
	c.Stream, c.Skills, c.FreeText = n.Stream, n.Skills, n.FreeText
	c.ExamKeyword = strings.TrimSpace(c.ExamKeyword)
	c.SkillKeyword = strings.TrimSpace(c.SkillKeyword)
	c.TraitKeyword = strings.TrimSpace(c.TraitKeyword)
	return c, nil
}
