// internal/workers/data-access/search-career-index/models.go
package searchcareerindex

import "career-workers/internal/search"

type Input struct {
	Query  string `json:"query"`
	Stream string `json:"stream,omitempty"`
	From   int    `json:"from,omitempty"`
	Size   int    `json:"size,omitempty"`
}

type Output struct {
	Hits      []search.Hit `json:"hits"`
	TotalHits int64        `json:"totalHits"`
	MaxScore  float64      `json:"maxScore"`
	Took      int64        `json:"took"` // milliseconds
}
