package validatefinancialprofile

import (
	"wealth-planner/internal/common/validation"
	"wealth-planner/internal/models"
)

func profileSchema() validation.JSONSchema {
	risk := make([]string, len(models.RiskTolerances))
	for i, r := range models.RiskTolerances {
		risk[i] = string(r)
	}
	slabs := make([]string, len(models.TaxSlabs))
	for i, s := range models.TaxSlabs {
		slabs[i] = string(s)
	}

	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"monthlyIncome":   {Type: "number", Minimum: validation.Float(0)},
			"monthlyExpenses": {Type: "number", Minimum: validation.Float(0)},
			"currentSavings":  {Type: "number", Minimum: validation.Float(0)},
			"riskTolerance":   {Type: "string", Enum: risk},
			"investmentHorizon": {
				Type:    "integer",
				Minimum: validation.Float(models.MinHorizonYears),
				Maximum: validation.Float(models.MaxHorizonYears),
			},
			"financialGoals":      {Type: "string", MaxLength: validation.Int(2000)},
			"existingInvestments": {Type: "string", MaxLength: validation.Int(2000)},
			"epfContribution": {
				Type:    "integer",
				Minimum: validation.Float(0),
				Maximum: validation.Float(models.MaxEPFPercent),
			},
			"taxSlab": {Type: "string", Enum: slabs},
		},
		Required: []string{
			"monthlyIncome", "monthlyExpenses", "currentSavings",
			"riskTolerance", "investmentHorizon", "financialGoals",
		},
	}
}
