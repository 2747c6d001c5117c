// internal/workers/planning/generate-financial-plan/handler.go
package generatefinancialplan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "wealth-planner/internal/common/errors"
	"wealth-planner/internal/common/logger"
	"wealth-planner/internal/common/metrics"
	"wealth-planner/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "generate-financial-plan"
)

type Handler struct {
	config       *Config
	newModel     ModelFactory
	now          func() time.Time
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewHandler builds a generator. A nil factory means Gemini via google.golang.org/genai.
func NewHandler(config *Config, factory ModelFactory, log logger.Logger) *Handler {
	if factory == nil {
		factory = NewGenAIFactory(config.Model, config.GenAIBaseURL)
	}
	log = log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		newModel:     factory,
		now:          time.Now,
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
	}
}

// WithClock overrides the clock used for the plan year.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, apperrors.NewInternalError(fmt.Errorf("parse input: %w", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		if !errors.Is(err, apperrors.ErrGenerationFailure) {
			h.failJob(ctx, client, job, err)
			return
		}
		h.completeJob(ctx, client, job, &jobOutput{Notice: apperrors.Normalize(err)})
		return
	}

	h.completeJob(ctx, client, job, &jobOutput{Plan: &output.Plan, Model: output.Model})
}

// execute returns the completion verbatim. Any failure past the credential
// check is a GenerationFailure.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	apiKey := input.APIKey
	if apiKey == "" {
		apiKey = h.config.GenAIAPIKey
	}
	if apiKey == "" {
		return nil, apperrors.NewMissingCredentialsError(models.CredentialGenAI)
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	promptText, err := BuildPrompt(input, h.now())
	if err != nil {
		return nil, h.generationFailed(fmt.Errorf("render prompt: %w", err), time.Time{})
	}

	start := time.Now()
	model, err := h.newModel(ctx, apiKey)
	if err != nil {
		return nil, h.generationFailed(err, start)
	}

	text, err := model.GenerateText(ctx, promptText)
	if err != nil {
		return nil, h.generationFailed(err, start)
	}
	metrics.ExternalCallDuration.WithLabelValues("generate", "ok").Observe(time.Since(start).Seconds())

	h.logger.Info("plan generated", map[string]interface{}{
		"model":        h.config.Model,
		"promptChars":  len(promptText),
		"planChars":    len(text),
		"resourceUsed": len(input.Resources),
	})

	return &Output{Plan: text, Model: h.config.Model}, nil
}

func (h *Handler) generationFailed(err error, start time.Time) *apperrors.StandardError {
	if !start.IsZero() {
		metrics.ExternalCallDuration.WithLabelValues("generate", "error").Observe(time.Since(start).Seconds())
	}
	h.logger.Warn("plan generation failed", map[string]interface{}{
		"model": h.config.Model,
		"error": err.Error(),
	})
	return apperrors.NewGenerationFailureError(err)
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *jobOutput) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, err = cmd.Send(ctx); err != nil {
		h.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	std := apperrors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(std.Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, std)
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
