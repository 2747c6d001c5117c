package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ErrorHandler turns planner errors into job outcomes for the worker surface.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleJobError throws a BPMN error for blocking codes so the process can branch on it,
// and fails the job without retries for everything else.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := Normalize(err)
	h.logError(job, stdErr)

	vars := stdErr.ToErrorVariables()

	if stdErr.Blocking() && stdErr.Code != ErrCodeInternal {
		cmd := client.NewThrowErrorCommand().
			JobKey(job.Key).
			ErrorCode(string(stdErr.Code)).
			ErrorMessage(stdErr.Message)

		if varsJSON, mErr := json.Marshal(vars); mErr == nil {
			if cmdWithVars, vErr := cmd.VariablesFromString(string(varsJSON)); vErr == nil {
				_, _ = cmdWithVars.Send(ctx)
				return
			}
		}
		_, _ = cmd.Send(ctx)
		return
	}

	_, _ = client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(0).
		ErrorMessage(stdErr.Error()).
		Send(ctx)
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError) {
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(stdErr.Code),
		"errorCategory":    string(stdErr.Category),
		"message":          stdErr.Message,
		"details":          stdErr.Details,
		"workflowInstance": job.ProcessInstanceKey,
	})
}
