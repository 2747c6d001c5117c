// internal/workers/planning/validate-financial-profile/handler.go
package validatefinancialprofile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "wealth-planner/internal/common/errors"
	"wealth-planner/internal/common/logger"
	"wealth-planner/internal/common/metrics"
	"wealth-planner/internal/common/validation"
	"wealth-planner/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/shopspring/decimal"
)

const (
	TaskType = "validate-financial-profile"
)

type Handler struct {
	config       *Config
	schema       validation.JSONSchema
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		schema:       profileSchema(),
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
	}
}

// Handle processes one job; ctx bounds the whole job including the reply to the broker.
func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, apperrors.NewInvalidProfileError(fmt.Sprintf("parse input: %v", err), nil))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	if !output.Passed {
		h.failJob(ctx, client, job, output.FirstBlocking())
		return
	}

	h.completeJob(ctx, client, job, output)
}

// execute never calls out; a nil error with Passed=false is a normal rejection.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	p := input.Profile
	out := &Output{
		Blocking:   []*apperrors.StandardError{},
		Advisories: []*apperrors.StandardError{},
	}

	if bad := p.AmountViolations(); len(bad) > 0 {
		out.Blocking = append(out.Blocking, apperrors.NewInvalidProfileError(
			fmt.Sprintf("amounts must be within ±%s", models.FormatRupees(models.MaxAmount)),
			bad,
		))
		h.record(out)
		return out, nil
	}

	result, err := validation.ValidateInput(p.SchemaDocument(), h.schema)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !result.Valid {
		out.Blocking = append(out.Blocking, apperrors.NewInvalidProfileError(
			strings.Join(result.GetErrorMessages(), "; "),
			result.FieldMap(),
		))
		h.record(out)
		return out, nil
	}

	if finding := h.checkExpenseRatio(p); finding != nil {
		out.Blocking = append(out.Blocking, finding)
	}
	if finding := h.checkEmergencyFund(p); finding != nil {
		out.Advisories = append(out.Advisories, finding)
	}
	if finding := h.checkGoalContext(p); finding != nil {
		out.Blocking = append(out.Blocking, finding)
	}

	out.Passed = len(out.Blocking) == 0
	h.record(out)
	return out, nil
}

func (h *Handler) checkExpenseRatio(p models.FinancialProfile) *apperrors.StandardError {
	limit := p.MonthlyIncome.Mul(h.config.ExpenseRatioLimit)
	if !p.MonthlyExpenses.GreaterThan(limit) {
		return nil
	}
	return apperrors.NewExcessiveExpenseRatioError(fmt.Sprintf(
		"monthly expenses %s exceed %s%% of monthly income %s",
		models.FormatRupees(p.MonthlyExpenses),
		h.config.ExpenseRatioLimit.Shift(2).String(),
		models.FormatRupees(p.MonthlyIncome),
	))
}

// checkEmergencyFund compares savings against months of income, not expenses.
func (h *Handler) checkEmergencyFund(p models.FinancialProfile) *apperrors.StandardError {
	target := p.MonthlyIncome.Mul(decimal.NewFromInt(h.config.EmergencyFundMonths))
	if !p.CurrentSavings.LessThan(target) {
		return nil
	}
	return apperrors.NewLowEmergencyFundAdvisory(fmt.Sprintf(
		"current savings %s are below %d months of income (%s)",
		models.FormatRupees(p.CurrentSavings),
		h.config.EmergencyFundMonths,
		models.FormatRupees(target),
	))
}

func (h *Handler) checkGoalContext(p models.FinancialProfile) *apperrors.StandardError {
	goals := strings.ToLower(p.FinancialGoals)
	for _, kw := range h.config.GoalKeywords {
		if strings.Contains(goals, kw) {
			return nil
		}
	}
	return apperrors.NewUnspecifiedGoalContextError(fmt.Sprintf(
		"goals mention none of: %s", strings.Join(h.config.GoalKeywords, ", "),
	))
}

func (h *Handler) record(out *Output) {
	for _, f := range out.Blocking {
		metrics.ValidationFindingsTotal.WithLabelValues(string(f.Code)).Inc()
	}
	for _, f := range out.Advisories {
		metrics.ValidationFindingsTotal.WithLabelValues(string(f.Code)).Inc()
	}

	h.logger.Info("validation completed", map[string]interface{}{
		"passed":        out.Passed,
		"blockingCount": len(out.Blocking),
		"advisoryCount": len(out.Advisories),
	})
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(map[string]interface{}{"validation": output})
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
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

// Execute validates a profile outside of a job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
