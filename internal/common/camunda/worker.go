// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"career-workers/internal/common/config"
	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/metrics"
	"career-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// StartWorker opens a job worker for taskType. It returns nil when the worker
// is disabled in configuration.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler worker.JobHandler, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jobWorker
}

// Reporter completes and fails jobs for one task type and records job metrics.
type Reporter struct {
	taskType string
	errors   *errors.ErrorHandler
	obs      *observability.Observability
	logger   logger.Logger
}

// NewReporter builds a Reporter. obs may be nil.
func NewReporter(taskType string, obs *observability.Observability, log logger.Logger) *Reporter {
	return &Reporter{
		taskType: taskType,
		errors:   errors.NewErrorHandler(log),
		obs:      obs,
		logger:   log,
	}
}

// Complete sends the job result as process variables.
func (r *Reporter) Complete(client worker.JobClient, job entities.Job, output interface{}, started time.Time) {
	ctx := context.Background()

	vars, err := encodeVariables(output)
	if err != nil {
		r.Fail(client, job, err, started)
		return
	}
	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromString(vars)
	if err != nil {
		r.Fail(client, job, errors.NewOutputEncodingError(err), started)
		return
	}

	err = SendWithRetry(ctx, "complete job", func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	})
	if err != nil {
		r.logger.Error("failed to send complete command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		r.record(ctx, "send_failed", started)
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, string(errors.Normalize(err).Code)).Inc()
		return
	}

	r.logger.Info("job completed", map[string]interface{}{
		"jobKey":   job.Key,
		"duration": time.Since(started).String(),
	})
	metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	r.record(ctx, "completed", started)
}

// encodeVariables renders a job result as the JSON object Zeebe stores as variables.
func encodeVariables(output interface{}) (string, error) {
	b, err := json.Marshal(output)
	if err != nil {
		return "", errors.NewOutputEncodingError(err)
	}
	if len(b) == 0 || b[0] != '{' {
		return "", errors.NewOutputEncodingError(fmt.Errorf("job output must be a JSON object, got %s", b))
	}
	return string(b), nil
}

// Fail hands err to the error handler, which either fails the job with
// retries or throws it as a BPMN error.
func (r *Reporter) Fail(client worker.JobClient, job entities.Job, err error, started time.Time) {
	ctx := context.Background()
	d := r.errors.HandleJobError(ctx, client, job, err)

	metrics.WorkerJobsFailed.WithLabelValues(r.taskType, string(d.Error.Code)).Inc()
	status := "thrown"
	if d.Retries > 0 {
		status = "retried"
	}
	r.record(ctx, status, started)
}

func (r *Reporter) record(ctx context.Context, status string, started time.Time) {
	elapsed := time.Since(started)
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(elapsed.Seconds())
	r.obs.RecordJob(ctx, r.taskType, status, elapsed)
}
