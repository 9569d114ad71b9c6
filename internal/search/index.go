// internal/search/index.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"career-workers/internal/common/errors"
	"career-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Index manages one Elasticsearch index of career documents.
type Index struct {
	client *elasticsearch.Client
	name   string
}

func NewIndex(client *elasticsearch.Client, name string) *Index {
	return &Index{client: client, name: name}
}

func (ix *Index) Name() string {
	return ix.name
}

// Ensure creates the index with IndexMapping if it does not exist.
func (ix *Index) Ensure(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{ix.name}}.Do(ctx, ix.client)
	if err != nil {
		return errors.NewElasticsearchConnectionFailedError(err)
	}
	res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	res, err = esapi.IndicesCreateRequest{
		Index: ix.name,
		Body:  strings.NewReader(IndexMapping),
	}.Do(ctx, ix.client)
	if err != nil {
		return errors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.NewSearchQueryFailedError(ix.name, fmt.Errorf("create index: %s", res.String()))
	}
	return nil
}

// Drop deletes the index. A missing index is not an error.
func (ix *Index) Drop(ctx context.Context) error {
	ignore := true
	res, err := esapi.IndicesDeleteRequest{
		Index:             []string{ix.name},
		IgnoreUnavailable: &ignore,
	}.Do(ctx, ix.client)
	if err != nil {
		return errors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return errors.NewSearchQueryFailedError(ix.name, fmt.Errorf("delete index: %s", res.String()))
	}
	return nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

// IndexRecords writes records in one bulk request, keyed by DocumentID and
// refreshed before returning. It returns the number of documents written.
func (ix *Index) IndexRecords(ctx context.Context, records []models.CareerRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	body, err := bulkBody(ix.name, records)
	if err != nil {
		return 0, err
	}

	res, err := esapi.BulkRequest{
		Body:    bytes.NewReader(body),
		Refresh: "true",
	}.Do(ctx, ix.client)
	if err != nil {
		return 0, errors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, errors.NewSearchQueryFailedError(ix.name, fmt.Errorf("bulk index: %s", res.String()))
	}

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return 0, errors.NewSearchQueryFailedError(ix.name, fmt.Errorf("decode bulk response: %w", err))
	}

	written := 0
	var firstErr string
	for _, item := range br.Items {
		for _, result := range item {
			if result.Error == nil && result.Status < 300 {
				written++
			} else if firstErr == "" && result.Error != nil {
				firstErr = result.Error.Type + ": " + result.Error.Reason
			}
		}
	}
	if br.Errors {
		return written, errors.NewSearchQueryFailedError(ix.name,
			fmt.Errorf("bulk index: %d of %d documents failed, first: %s", len(records)-written, len(records), firstErr))
	}
	return written, nil
}

func bulkBody(index string, records []models.CareerRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i, r := range records {
		meta := map[string]interface{}{
			"index": map[string]interface{}{"_index": index, "_id": DocumentID(r.Name)},
		}
		if err := enc.Encode(meta); err != nil {
			return nil, err
		}
		if err := enc.Encode(toDocument(r, i)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
