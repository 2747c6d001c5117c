package planner

import (
	"time"

	apperrors "wealth-planner/internal/common/errors"
	"wealth-planner/internal/models"
	vfp "wealth-planner/internal/workers/planning/validate-financial-profile"

	"github.com/google/uuid"
)

// Request is one plan request. It is passed by value and never modified.
type Request struct {
	ID          string
	Surface     string
	Profile     models.FinancialProfile
	Credentials models.Credentials
}

func NewRequest(surface string, profile models.FinancialProfile, creds models.Credentials) Request {
	return Request{
		ID:          uuid.NewString(),
		Surface:     surface,
		Profile:     profile,
		Credentials: creds,
	}
}

type Outcome string

const (
	// OutcomeCompleted means a plan was generated with every resource lookup succeeding.
	OutcomeCompleted Outcome = "completed"
	// OutcomeDegraded means the flow ran but at least one notice was raised.
	OutcomeDegraded Outcome = "degraded"
	// OutcomeBlocked means validation stopped the request.
	OutcomeBlocked Outcome = "blocked"
	// OutcomeRejected means the request never started, e.g. missing credentials.
	OutcomeRejected Outcome = "rejected"
)

type Response struct {
	RequestID  string                     `json:"requestId"`
	Outcome    Outcome                    `json:"outcome"`
	Error      *apperrors.StandardError   `json:"error,omitempty"`
	Validation *vfp.Output                `json:"validation,omitempty"`
	Resources  []models.SearchResult      `json:"resources"`
	Plan       *string                    `json:"plan"`
	Notices    []*apperrors.StandardError `json:"notices"`
	FinishedAt time.Time                  `json:"finishedAt"`
}

// HasPlan reports whether a plan is available to show.
func (r *Response) HasPlan() bool {
	return r.Plan != nil
}

// Advisories returns the non-blocking validation findings.
func (r *Response) Advisories() []*apperrors.StandardError {
	if r.Validation == nil {
		return nil
	}
	return r.Validation.Advisories
}

// Blocking returns every finding that stopped the request.
func (r *Response) Blocking() []*apperrors.StandardError {
	if r.Validation != nil && len(r.Validation.Blocking) > 0 {
		return r.Validation.Blocking
	}
	if r.Error != nil {
		return []*apperrors.StandardError{r.Error}
	}
	return nil
}

// HTTPStatus is the status the JSON API answers with.
func (r *Response) HTTPStatus() int {
	if r.Error == nil {
		return 200
	}
	return r.Error.HTTPStatus()
}
