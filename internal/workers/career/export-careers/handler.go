// internal/workers/career/export-careers/handler.go
package exportcareers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"career-workers/internal/catalog"
	"career-workers/internal/common/camunda"
	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/observability"
	"career-workers/internal/criteria"
	"career-workers/internal/export"
	"career-workers/internal/matcher"
	"career-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "export-careers"

type Handler struct {
	config   *Config
	catalog  catalog.Provider
	matcher  *matcher.Matcher
	reporter *camunda.Reporter
	logger   logger.Logger
	now      func() time.Time
}

func NewHandler(config *Config, cat catalog.Provider, m *matcher.Matcher, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		catalog:  cat,
		matcher:  m,
		reporter: camunda.NewReporter(TaskType, obs, log),
		logger:   log,
		now:      time.Now,
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	records, err := h.selectRecords(input)
	if err != nil {
		return nil, err
	}

	body, err := export.RenderCSV(records)
	if err != nil {
		return nil, errors.NewExportFailedError(err)
	}

	output := &Output{
		FileName:    export.FileName(h.config.FileNamePrefix, h.now()),
		ContentType: export.ContentTypeCSV,
		CSV:         string(body),
		RowCount:    len(records),
	}

	h.logger.Info("careers exported", map[string]interface{}{
		"fileName": output.FileName,
		"rowCount": output.RowCount,
		"bytes":    len(body),
	})
	return output, nil
}

func (h *Handler) selectRecords(input *Input) ([]models.CareerRecord, error) {
	cat := h.catalog.Current()

	if len(input.CareerNames) > 0 {
		records := make([]models.CareerRecord, 0, len(input.CareerNames))
		for _, name := range input.CareerNames {
			rec, ok := cat.Lookup(name)
			if !ok {
				return nil, errors.NewCareerNotFoundError(name).WithMetadata("career", name)
			}
			records = append(records, rec)
		}
		return records, nil
	}

	c, err := criteria.Normalize(input.Criteria)
	if err != nil {
		return nil, err
	}
	return h.matcher.Filter(cat, c).Careers, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
