package web

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	apperrors "wealth-planner/internal/common/errors"
	"wealth-planner/internal/models"

	"github.com/shopspring/decimal"
)

// PlanForm is the HTML form as submitted. Every field arrives as text.
type PlanForm struct {
	MonthlyIncome       string `form:"monthly_income"`
	MonthlyExpenses     string `form:"monthly_expenses"`
	CurrentSavings      string `form:"current_savings"`
	RiskTolerance       string `form:"risk_tolerance"`
	InvestmentHorizon   string `form:"investment_horizon"`
	FinancialGoals      string `form:"financial_goals"`
	ExistingInvestments string `form:"existing_investments"`
	EPFContribution     string `form:"epf_contribution"`
	TaxSlab             string `form:"tax_slab"`
	SearchAPIKey        string `form:"search_api_key"`
	GenAIAPIKey         string `form:"genai_api_key"`
}

// DefaultPlanForm pre-fills the form from the default profile. Keys stay blank.
func DefaultPlanForm() PlanForm {
	p := models.DefaultProfile()
	return PlanForm{
		MonthlyIncome:     p.MonthlyIncome.String(),
		MonthlyExpenses:   p.MonthlyExpenses.String(),
		CurrentSavings:    p.CurrentSavings.String(),
		RiskTolerance:     string(p.RiskTolerance),
		InvestmentHorizon: strconv.Itoa(p.InvestmentHorizon),
		EPFContribution:   strconv.Itoa(*p.EPFContribution),
		TaxSlab:           string(p.TaxSlab),
	}
}

// Credentials returns the keys typed into the form.
func (f PlanForm) Credentials() models.Credentials {
	return models.Credentials{
		SearchAPIKey: strings.TrimSpace(f.SearchAPIKey),
		GenAIAPIKey:  strings.TrimSpace(f.GenAIAPIKey),
	}
}

// Redacted returns a copy safe to render back into the page.
func (f PlanForm) Redacted() PlanForm {
	f.SearchAPIKey = ""
	f.GenAIAPIKey = ""
	return f
}

// Profile parses the form. Range checks are left to the validator; only
// text that cannot be read as a number is rejected here.
func (f PlanForm) Profile() (models.FinancialProfile, error) {
	var p models.FinancialProfile
	bad := map[string]interface{}{}

	amount := func(field, raw string) decimal.Decimal {
		d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""))
		if err != nil {
			bad[field] = "INVALID_TYPE"
		}
		return d
	}

	p.MonthlyIncome = amount("monthlyIncome", f.MonthlyIncome)
	p.MonthlyExpenses = amount("monthlyExpenses", f.MonthlyExpenses)
	p.CurrentSavings = amount("currentSavings", f.CurrentSavings)

	_ = p.RiskTolerance.UnmarshalText([]byte(f.RiskTolerance))

	horizon, err := strconv.Atoi(strings.TrimSpace(f.InvestmentHorizon))
	if err != nil {
		bad["investmentHorizon"] = "INVALID_TYPE"
	}
	p.InvestmentHorizon = horizon

	if raw := strings.TrimSpace(f.EPFContribution); raw != "" {
		epf, err := strconv.Atoi(raw)
		if err != nil {
			bad["epfContribution"] = "INVALID_TYPE"
		}
		p.EPFContribution = &epf
	}

	p.FinancialGoals = strings.TrimSpace(f.FinancialGoals)
	p.ExistingInvestments = strings.TrimSpace(f.ExistingInvestments)
	p.TaxSlab = models.TaxSlab(strings.TrimSpace(f.TaxSlab))

	if len(bad) > 0 {
		fields := make([]string, 0, len(bad))
		for k := range bad {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		return p, apperrors.NewInvalidProfileError(fmt.Sprintf("not a number: %s", strings.Join(fields, ", ")), bad)
	}
	return p, nil
}
