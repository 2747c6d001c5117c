// Package errors provides the standardized error taxonomy shared by the planner surfaces.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Profile validation
	ErrCodeExcessiveExpenseRatio  ErrorCode = "EXCESSIVE_EXPENSE_RATIO"
	ErrCodeUnspecifiedGoalContext ErrorCode = "UNSPECIFIED_GOAL_CONTEXT"
	ErrCodeInvalidProfile         ErrorCode = "INVALID_PROFILE"
	ErrCodeLowEmergencyFund       ErrorCode = "LOW_EMERGENCY_FUND"

	// External collaborators
	ErrCodeSearchFailure     ErrorCode = "SEARCH_FAILURE"
	ErrCodeGenerationFailure ErrorCode = "GENERATION_FAILURE"

	// Request level
	ErrCodeMissingCredentials ErrorCode = "MISSING_CREDENTIALS"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// Category tells the caller what an error does to the current request.
type Category string

const (
	// CategoryBlocking halts the request; no plan is generated.
	CategoryBlocking Category = "blocking"
	// CategoryAdvisory is shown to the user but never prevents generation.
	CategoryAdvisory Category = "advisory"
	// CategoryDegraded means the flow continued with reduced output.
	CategoryDegraded Category = "degraded"
)

var categories = map[ErrorCode]Category{
	ErrCodeExcessiveExpenseRatio:  CategoryBlocking,
	ErrCodeUnspecifiedGoalContext: CategoryBlocking,
	ErrCodeInvalidProfile:         CategoryBlocking,
	ErrCodeMissingCredentials:     CategoryBlocking,
	ErrCodeInternal:               CategoryBlocking,
	ErrCodeLowEmergencyFund:       CategoryAdvisory,
	ErrCodeSearchFailure:          CategoryDegraded,
	ErrCodeGenerationFailure:      CategoryDegraded,
}

// StandardError represents a structured, user-presentable error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Category  Category               `json:"category"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches another *StandardError by code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Code == e.Code
}

// Blocking reports whether the error halts the current request.
func (e *StandardError) Blocking() bool {
	return e.Category == CategoryBlocking
}

// HTTPStatus maps the error onto a response status for the JSON API.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeExcessiveExpenseRatio, ErrCodeUnspecifiedGoalContext, ErrCodeInvalidProfile:
		return http.StatusUnprocessableEntity
	case ErrCodeMissingCredentials:
		return http.StatusBadRequest
	case ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

// ToErrorVariables returns a map suitable for job fail/throw variables.
func (e *StandardError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":     string(e.Code),
		"errorCategory": string(e.Category),
		"errorMessage":  e.Message,
		"errorDetails":  e.Details,
	}
	for k, v := range e.Metadata {
		vars[k] = v
	}
	return vars
}

// GetErrorCategory returns the category for a code; unknown codes are blocking.
func GetErrorCategory(code ErrorCode) Category {
	if c, ok := categories[code]; ok {
		return c
	}
	return CategoryBlocking
}

// Sentinels for errors.Is checks.
var (
	ErrSearchFailure      = &StandardError{Code: ErrCodeSearchFailure}
	ErrGenerationFailure  = &StandardError{Code: ErrCodeGenerationFailure}
	ErrMissingCredentials = &StandardError{Code: ErrCodeMissingCredentials}
)

// ==========================
// 2. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Category:  GetErrorCategory(code),
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewExcessiveExpenseRatioError blocks generation when expenses exceed the allowed share of income.
func NewExcessiveExpenseRatioError(details string) *StandardError {
	return newError(ErrCodeExcessiveExpenseRatio,
		"Expenses exceed 70% of income - review discretionary spending", details, nil)
}

// NewUnspecifiedGoalContextError blocks generation when goals carry no recognised life event.
func NewUnspecifiedGoalContextError(details string) *StandardError {
	return newError(ErrCodeUnspecifiedGoalContext,
		"Please specify goals with Indian context (education, marriage, property, retirement)", details, nil)
}

// NewInvalidProfileError blocks generation when the profile is structurally invalid.
func NewInvalidProfileError(details string, fields map[string]interface{}) *StandardError {
	e := newError(ErrCodeInvalidProfile, "Financial profile is invalid", details, nil)
	e.Metadata = fields
	return e
}

// NewLowEmergencyFundAdvisory is a non-blocking warning about thin savings.
func NewLowEmergencyFundAdvisory(details string) *StandardError {
	return newError(ErrCodeLowEmergencyFund,
		"Emergency fund below 6 months expenses - high financial risk", details, nil)
}

// NewSearchFailureError reports a failed resource lookup; the flow continues without resources.
func NewSearchFailureError(err error) *StandardError {
	return newError(ErrCodeSearchFailure, "Search error", errorDetails(err), err)
}

// NewGenerationFailureError reports a failed plan generation; no plan is shown.
func NewGenerationFailureError(err error) *StandardError {
	return newError(ErrCodeGenerationFailure, "Error generating plan", errorDetails(err), err)
}

// NewMissingCredentialsError blocks the whole flow before any other logic runs.
func NewMissingCredentialsError(missing ...string) *StandardError {
	e := newError(ErrCodeMissingCredentials,
		"Please enter both API keys to use the application", fmt.Sprintf("missing: %v", missing), nil)
	e.Metadata = map[string]interface{}{"missing": missing}
	return e
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", errorDetails(err), err)
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

func errorDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
