// internal/workers/planning/generate-financial-plan/models.go
package generatefinancialplan

import (
	apperrors "wealth-planner/internal/common/errors"
	"wealth-planner/internal/models"
)

type Input struct {
	Profile   models.FinancialProfile `json:"profile"`
	Resources []models.SearchResult   `json:"resources"`
	APIKey    string                  `json:"-"`
}

type Output struct {
	Plan  string `json:"plan"`
	Model string `json:"model"`
}

// jobOutput is what the worker completes a job with; Plan is nil when generation failed.
type jobOutput struct {
	Plan   *string                  `json:"plan"`
	Model  string                   `json:"model,omitempty"`
	Notice *apperrors.StandardError `json:"planNotice,omitempty"`
}
