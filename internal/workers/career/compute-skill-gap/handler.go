// internal/workers/career/compute-skill-gap/handler.go
package computeskillgap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"career-workers/internal/catalog"
	"career-workers/internal/common/camunda"
	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/observability"
	"career-workers/internal/common/validation"
	"career-workers/internal/criteria"
	"career-workers/internal/matcher"
	"career-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/ecodeclub/ekit/slice"
)

const TaskType = "compute-skill-gap"

type Handler struct {
	config   *Config
	catalog  catalog.Provider
	reporter *camunda.Reporter
	logger   logger.Logger
}

func NewHandler(config *Config, cat catalog.Provider, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		catalog:  cat,
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

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(job.Variables), &raw); err != nil {
		h.reporter.Fail(client, job, errors.NewInvalidCriteriaError(fmt.Sprintf("parse input: %v", err)), started)
		return
	}

	result, err := validation.SkillGapSchema.Validate(raw)
	if err == nil && !result.Valid {
		err = errors.NewInvalidCriteriaError(result.Summary())
	}
	if err != nil {
		h.reporter.Fail(client, job, err, started)
		return
	}

	input := Input{UserSkills: raw["userSkills"]}
	input.TargetCareer, _ = raw["targetCareer"].(string)

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
	name := strings.TrimSpace(input.TargetCareer)
	if name == "" {
		return nil, errors.NewInvalidCriteriaError("targetCareer: is required")
	}

	target, ok := h.catalog.Current().Lookup(name)
	if !ok {
		return nil, errors.NewCareerNotFoundError(name).WithMetadata("career", name)
	}

	userSkills := slice.Map(criteria.ParseStringArray(input.UserSkills), func(_ int, s string) string {
		return models.CleanSkillLabel(s)
	})
	missing := matcher.SkillGap(target, userSkills)
	matched := slice.FindAll(target.RequiredSkills, func(s string) bool {
		return !slice.Contains(missing, s)
	})
	if matched == nil {
		matched = []string{}
	}

	h.logger.Info("skill gap computed", map[string]interface{}{
		"career":        target.Name,
		"missingSkills": missing,
		"isQualified":   len(missing) == 0,
	})

	return &Output{
		Career:        target,
		MissingSkills: missing,
		MatchedSkills: matched,
		IsQualified:   len(missing) == 0,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
