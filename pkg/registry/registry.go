// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Planning returns the built-in catalogue of planning activities.
func Planning() *ActivityRegistry {
	return &ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: "2025-01-15",
		Activities: []Activity{
			{
				ID:              "Activity_ValidateFinancialProfile",
				DisplayName:     "Validate Financial Profile",
				Description:     "Applies the expense ratio, emergency fund and goal context rules",
				TaskType:        "validate-financial-profile",
				InputVariables:  []string{"profile"},
				OutputVariables: []string{"validation"},
				ErrorCodes:      []string{"INVALID_PROFILE", "EXCESSIVE_EXPENSE_RATIO", "UNSPECIFIED_GOAL_CONTEXT"},
				Timeout:         "5s",
				Retries:         0,
			},
			{
				ID:              "Activity_SearchFinancialResources",
				DisplayName:     "Search Financial Resources",
				Description:     "Looks up curated Indian finance articles for the profile",
				TaskType:        "search-financial-resources",
				InputVariables:  []string{"profile", "query"},
				OutputVariables: []string{"resources", "searchNotice"},
				ErrorCodes:      []string{"MISSING_CREDENTIALS"},
				DegradedCodes:   []string{"SEARCH_FAILURE"},
				Timeout:         "15s",
				Retries:         0,
			},
			{
				ID:              "Activity_GenerateFinancialPlan",
				DisplayName:     "Generate Financial Plan",
				Description:     "Asks the generative model for a seven section wealth plan",
				TaskType:        "generate-financial-plan",
				InputVariables:  []string{"profile", "resources"},
				OutputVariables: []string{"plan", "model", "planNotice"},
				ErrorCodes:      []string{"MISSING_CREDENTIALS"},
				DegradedCodes:   []string{"GENERATION_FAILURE"},
				Timeout:         "120s",
				Retries:         0,
			},
		},
	}
}

// Lookup finds an activity by task type.
func (r *ActivityRegistry) Lookup(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}
