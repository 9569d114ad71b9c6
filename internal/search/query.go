// internal/search/query.go
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"career-workers/internal/common/errors"
	"career-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	DefaultSize = 20
	MaxSize     = 100
)

// Query is a ranked full-text search over the career index.
type Query struct {
	Text   string
	Stream string
	From   int
	Size   int
}

// Hit is one ranked career.
type Hit struct {
	Career models.CareerRecord `json:"career"`
	Score  float64             `json:"score"`
}

type Result struct {
	Hits      []Hit   `json:"hits"`
	TotalHits int64   `json:"totalHits"`
	MaxScore  float64 `json:"maxScore"`
	Took      int64   `json:"took"` // milliseconds
}

// BuildQuery returns the request body for q. Name matches weigh most, then
// exams, then skills. An any-stream value adds no stream filter.
func BuildQuery(q Query) map[string]interface{} {
	must := []interface{}{}
	if text := strings.TrimSpace(q.Text); text != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"fields": []string{"name^3", "exams^2", "required_skills"},
				"type":   "best_fields",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery := map[string]interface{}{"must": must}
	if !models.IsAnyStream(q.Stream) {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{
				"term": map[string]interface{}{"stream": strings.ToLower(strings.TrimSpace(q.Stream))},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"position": map[string]interface{}{"order": "asc"}},
		},
	}
}

func (q Query) window() (from, size int) {
	from, size = q.From, q.Size
	if from < 0 {
		from = 0
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return from, size
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []struct {
			Score  *float64 `json:"_score"`
			Source document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs q against the index.
func (ix *Index) Search(ctx context.Context, q Query) (*Result, error) {
	body, err := json.Marshal(BuildQuery(q))
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(ix.name, err)
	}

	from, size := q.window()
	trackScores := true
	req := esapi.SearchRequest{
		Index:       []string{ix.name},
		Body:        strings.NewReader(string(body)),
		From:        &from,
		Size:        &size,
		TrackScores: &trackScores,
	}

	start := time.Now()
	res, err := req.Do(ctx, ix.client)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewSearchTimeoutError(ix.name)
		}
		return nil, errors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == 404 {
			return nil, errors.NewIndexNotFoundError(ix.name)
		}
		return nil, errors.NewSearchQueryFailedError(ix.name, fmt.Errorf("search: %s", res.String()))
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, errors.NewSearchQueryFailedError(ix.name, fmt.Errorf("decode search response: %w", err))
	}

	result := &Result{
		Hits:      make([]Hit, 0, len(sr.Hits.Hits)),
		TotalHits: sr.Hits.Total.Value,
		Took:      time.Since(start).Milliseconds(),
	}
	if sr.Hits.MaxScore != nil {
		result.MaxScore = *sr.Hits.MaxScore
	}
	for _, h := range sr.Hits.Hits {
		hit := Hit{Career: h.Source.record()}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		result.Hits = append(result.Hits, hit)
	}
	return result, nil
}
