// internal/workers/career/filter-careers/handler.go
package filtercareers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"career-workers/internal/catalog"
	"career-workers/internal/common/camunda"
	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/metrics"
	"career-workers/internal/common/observability"
	"career-workers/internal/criteria"
	"career-workers/internal/matcher"
	"career-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "filter-careers"

type Handler struct {
	config   *Config
	catalog  catalog.Provider
	matcher  *matcher.Matcher
	reporter *camunda.Reporter
	logger   logger.Logger
}

func NewHandler(config *Config, cat catalog.Provider, m *matcher.Matcher, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		catalog:  cat,
		matcher:  m,
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
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := criteria.Normalize(input.Criteria)
	if err != nil {
		return nil, err
	}
	page, err := h.pagination(input.Pagination)
	if err != nil {
		return nil, err
	}

	requestID := input.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	result := h.matcher.Filter(h.catalog.Current(), c)
	metrics.FilterQueries.WithLabelValues("worker", metrics.BoolLabel(result.CriteriaApplied)).Inc()
	metrics.FilterMatches.WithLabelValues("worker").Observe(float64(result.TotalMatches))

	paged := matcher.Paginate(result, page)

	h.logger.Info("careers filtered", map[string]interface{}{
		"requestId":       requestID,
		"totalMatches":    paged.TotalMatches,
		"returned":        len(paged.Careers),
		"criteriaApplied": paged.CriteriaApplied,
		"page":            page.Page,
	})

	return &Output{
		Careers:         paged.Careers,
		TotalMatches:    paged.TotalMatches,
		CriteriaApplied: paged.CriteriaApplied,
		Page:            page.Page,
		Size:            page.Size,
		RequestID:       requestID,
	}, nil
}

func (h *Handler) pagination(p *models.Pagination) (models.Pagination, error) {
	page := models.Pagination{Page: models.DefaultPage, Size: h.config.DefaultPageSize}
	if p == nil {
		return page, nil
	}
	if p.Page < 0 || p.Size < 0 {
		return page, errors.NewInvalidCriteriaError(fmt.Sprintf("pagination: page %d, size %d", p.Page, p.Size))
	}
	if p.Page > 0 {
		page.Page = p.Page
	}
	if p.Size > 0 {
		page.Size = p.Size
	}
	if page.Size > h.config.MaxPageSize {
		page.Size = h.config.MaxPageSize
	}
	return page, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
