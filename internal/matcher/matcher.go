// internal/matcher/matcher.go
package matcher

import (
	"context"

	"career-workers/internal/catalog"
	"career-workers/internal/models"

	"github.com/ecodeclub/ekit/slice"
	"golang.org/x/sync/errgroup"
)

// Matcher filters a catalog. It holds no state beyond its defaults and is
// safe for concurrent use.
type Matcher struct {
	defaultMode models.SkillMatchMode
	maxParallel int
}

type Option func(*Matcher)

// WithDefaultMode sets the skill mode used when criteria leave it empty.
func WithDefaultMode(mode models.SkillMatchMode) Option {
	return func(m *Matcher) { m.defaultMode = mode }
}

// WithMaxParallel bounds the goroutines used by FilterBatch. Zero means unbounded.
func WithMaxParallel(n int) Option {
	return func(m *Matcher) { m.maxParallel = n }
}

func New(opts ...Option) *Matcher {
	m := &Matcher{defaultMode: models.MatchAll}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Filter returns the records of cat matching c, in catalog order.
func (m *Matcher) Filter(cat *catalog.Catalog, c models.QueryCriteria) models.MatchResult {
	stages := StagesFor(c, m.defaultMode)
	careers := Narrow(cat.Records(), stages...)
	return models.MatchResult{
		Careers:         careers,
		TotalMatches:    len(careers),
		CriteriaApplied: len(stages) > 0,
	}
}

// Filter runs c against cat with the default (all) skill mode.
func Filter(cat *catalog.Catalog, c models.QueryCriteria) []models.CareerRecord {
	return New().Filter(cat, c).Careers
}

// FilterBatch runs every criteria value against cat in parallel. Results are
// in the order of criteria. It stops early only if ctx is cancelled.
func (m *Matcher) FilterBatch(ctx context.Context, cat *catalog.Catalog, criteria []models.QueryCriteria) ([]models.MatchResult, error) {
	results := make([]models.MatchResult, len(criteria))

	g, gctx := errgroup.WithContext(ctx)
	if m.maxParallel > 0 {
		g.SetLimit(m.maxParallel)
	}
	for i := range criteria {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = m.Filter(cat, criteria[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SkillGap returns the target's required skills the user lacks, in the
// target's order. userSkills are normalized before comparison.
func SkillGap(target models.CareerRecord, userSkills []string) []string {
	have := models.NormalizeSkills(userSkills)
	gap := slice.FindAll(target.RequiredSkills, func(s string) bool {
		return !slice.Contains(have, s)
	})
	if gap == nil {
		return []string{}
	}
	return gap
}

// Paginate cuts one page out of a result. TotalMatches is unchanged.
func Paginate(result models.MatchResult, p models.Pagination) models.MatchResult {
	start, end := p.Bounds(len(result.Careers))
	result.Careers = result.Careers[start:end]
	return result
}
