// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"
	"time"

	"career-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

// ErrorHandler fails or throws jobs for worker errors.
type ErrorHandler struct {
	logger logger.Logger
}

func NewErrorHandler(log logger.Logger) *ErrorHandler {
	return &ErrorHandler{logger: log}
}

// Decision is what HandleJobError does with a failed job.
type Decision struct {
	Error   *StandardError
	BPMN    *BPMNError
	Retries int // retries left after this failure; 0 means throw the BPMN error
}

// Decide normalizes err and picks between a retrying fail and a BPMN throw.
// remaining is the job's remaining retry count as reported by the broker.
func Decide(err error, remaining int32) Decision {
	stdErr := Normalize(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	retries := bpmnErr.Retries
	if left := int(remaining) - 1; left < retries {
		retries = left
	}
	if retries < 0 {
		retries = 0
	}
	return Decision{Error: stdErr, BPMN: bpmnErr, Retries: retries}
}

// Normalize returns the StandardError wrapped in err, or an INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// HandleJobError reports err to the broker and returns the decision taken.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) Decision {
	d := Decide(err, job.Retries)
	h.logError(job, d)

	if d.Retries > 0 {
		h.failJobWithRetries(ctx, client, job, d)
	} else {
		h.throwBPMNError(ctx, client, job, d.BPMN)
	}
	return d
}

func (h *ErrorHandler) failJobWithRetries(ctx context.Context, client worker.JobClient, job entities.Job, d Decision) {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(int32(d.Retries)).
		ErrorMessage(d.BPMN.Message)

	if vars, ok := encodeVariables(d.BPMN); ok {
		if withVars, err := cmd.VariablesFromString(vars); err == nil {
			h.send(ctx, job, "fail", func(ctx context.Context) error {
				_, err := withVars.Send(ctx)
				return err
			})
			return
		}
	}

	h.send(ctx, job, "fail", func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	})
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if vars, ok := encodeVariables(bpmnErr); ok {
		if withVars, err := cmd.VariablesFromString(vars); err == nil {
			h.send(ctx, job, "throw", func(ctx context.Context) error {
				_, err := withVars.Send(ctx)
				return err
			})
			return
		}
	}

	h.send(ctx, job, "throw", func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	})
}

func (h *ErrorHandler) send(ctx context.Context, job entities.Job, action string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		h.logger.Error("failed to report job error", map[string]interface{}{
			"jobKey": job.Key,
			"action": action,
			"error":  err.Error(),
		})
	}
}

func encodeVariables(bpmnErr *BPMNError) (string, bool) {
	vars := bpmnErr.ToErrorVariables()
	if len(vars) == 0 {
		return "", false
	}
	raw, err := json.Marshal(vars)
	if err != nil {
		return "", false
	}
	return string(raw), true
}

func (h *ErrorHandler) logError(job entities.Job, d Decision) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(d.Error.Code),
		"bpmnErrorCode":    d.BPMN.Code,
		"message":          d.BPMN.Message,
		"details":          d.Error.Details,
		"retryable":        d.Error.Retryable,
		"retries":          d.Retries,
		"errorCategory":    GetErrorCategory(d.Error.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
