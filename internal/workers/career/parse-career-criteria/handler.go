// internal/workers/career/parse-career-criteria/handler.go
package parsecareercriteria

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"career-workers/internal/common/camunda"
	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/observability"
	"career-workers/internal/criteria"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "parse-career-criteria"

type Handler struct {
	config   *Config
	parser   *criteria.Parser
	reporter *camunda.Reporter
	logger   logger.Logger
}

func NewHandler(config *Config, parser *criteria.Parser, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		parser:   parser,
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

	output, err := h.execute(ctx, input)
	if err != nil {
		h.reporter.Fail(client, job, err, started)
		return
	}

	h.reporter.Complete(client, job, output, started)
}

func (h *Handler) execute(_ context.Context, input Input) (*Output, error) {
	parsed, err := h.parser.Parse(input)
	if err != nil {
		return nil, err
	}

	output := &Output{
		Criteria:        parsed.Criteria,
		Pagination:      parsed.Pagination,
		CriteriaApplied: !parsed.Criteria.IsEmpty(),
	}

	h.logger.Info("criteria parsed", map[string]interface{}{
		"stream":          output.Criteria.Stream,
		"skills":          output.Criteria.Skills,
		"freeText":        output.Criteria.FreeText,
		"skillMatchMode":  output.Criteria.MatchMode,
		"criteriaApplied": output.CriteriaApplied,
		"pagination":      output.Pagination,
	})

	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input Input) (*Output, error) {
	return h.execute(ctx, input)
}
