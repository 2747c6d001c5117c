// internal/workers/planning/search-financial-resources/models.go
package searchfinancialresources

import (
	apperrors "wealth-planner/internal/common/errors"
	"wealth-planner/internal/models"
)

// Input carries either an explicit query or a profile to derive one from.
type Input struct {
	Query   string                   `json:"query,omitempty"`
	Profile *models.FinancialProfile `json:"profile,omitempty"`
	APIKey  string                   `json:"-"`
}

type Output struct {
	Results []models.SearchResult `json:"resources"`
	// Notice is set when the lookup failed and Results is empty because of it.
	Notice *apperrors.StandardError `json:"searchNotice,omitempty"`
}

type organicResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
	Error          string          `json:"error"`
}
