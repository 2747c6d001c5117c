// internal/workers/planning/validate-financial-profile/models.go
package validatefinancialprofile

import (
	apperrors "wealth-planner/internal/common/errors"
	"wealth-planner/internal/models"
)

type Input struct {
	Profile models.FinancialProfile `json:"profile"`
}

// Output is the validation outcome. Advisories are reported whether or not the profile passed.
type Output struct {
	Passed     bool                       `json:"passed"`
	Blocking   []*apperrors.StandardError `json:"blocking"`
	Advisories []*apperrors.StandardError `json:"advisories"`
}

// FirstBlocking returns the first blocking finding, or nil when the profile passed.
func (o *Output) FirstBlocking() *apperrors.StandardError {
	if len(o.Blocking) == 0 {
		return nil
	}
	return o.Blocking[0]
}
