// internal/workers/data-access/search-career-index/handler.go
package searchcareerindex

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"career-workers/internal/common/camunda"
	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/observability"
	"career-workers/internal/common/validation"
	"career-workers/internal/search"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "search-career-index"

// Searcher runs ranked queries; *search.Index implements it.
type Searcher interface {
	Name() string
	Search(ctx context.Context, q search.Query) (*search.Result, error)
}

type Handler struct {
	config   *Config
	index    Searcher
	reporter *camunda.Reporter
	logger   logger.Logger
}

func NewHandler(config *Config, index Searcher, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		index:    index,
		reporter: camunda.NewReporter(TaskType, obs, log),
		logger:   log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	started := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.reporter.Fail(client, job, errors.NewInvalidCriteriaError(fmt.Sprintf("parse input: %v", err)), started)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.reporter.Fail(client, job, err, started)
		return
	}

	h.reporter.Complete(client, job, output, started)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	result, err := h.index.Search(ctx, search.Query{
		Text:   input.Query,
		Stream: input.Stream,
		From:   input.From,
		Size:   input.Size,
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewSearchTimeoutError(h.index.Name())
		}
		if _, ok := errors.AsStandardError(err); ok {
			return nil, err
		}
		return nil, errors.NewSearchQueryFailedError(h.index.Name(), err)
	}

	h.logger.Info("career index searched", map[string]interface{}{
		"query":     input.Query,
		"stream":    input.Stream,
		"totalHits": result.TotalHits,
		"took":      result.Took,
	})

	return &Output{
		Hits:      result.Hits,
		TotalHits: result.TotalHits,
		MaxScore:  result.MaxScore,
		Took:      result.Took,
	}, nil
}

func validate(input *Input) error {
	doc := map[string]interface{}{"query": input.Query}
	if input.Stream != "" {
		doc["stream"] = input.Stream
	}
	if input.Size != 0 {
		doc["size"] = input.Size
	}

	result, err := validation.SearchSchema.Validate(doc)
	if err != nil {
		return errors.NewInvalidCriteriaError(err.Error())
	}
	if !result.Valid {
		return errors.NewInvalidCriteriaError(result.Summary())
	}
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
