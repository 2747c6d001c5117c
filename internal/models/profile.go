// internal/models/profile.go
package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type RiskTolerance string

const (
	RiskConservative RiskTolerance = "Conservative"
	RiskModerate     RiskTolerance = "Moderate"
	RiskAggressive   RiskTolerance = "Aggressive"
)

var RiskTolerances = []RiskTolerance{RiskConservative, RiskModerate, RiskAggressive}

// ParseRiskTolerance accepts any casing of the three tiers.
func ParseRiskTolerance(s string) (RiskTolerance, error) {
	for _, r := range RiskTolerances {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown risk tolerance %q", s)
}

// UnmarshalText canonicalises the casing of a known tier. Unknown values are kept
// verbatim so schema validation can report them against the field.
func (r *RiskTolerance) UnmarshalText(text []byte) error {
	if known, err := ParseRiskTolerance(string(text)); err == nil {
		*r = known
		return nil
	}
	*r = RiskTolerance(text)
	return nil
}

type TaxSlab string

const (
	TaxSlab5  TaxSlab = "5%"
	TaxSlab20 TaxSlab = "20%"
	TaxSlab30 TaxSlab = "30%"
)

var TaxSlabs = []TaxSlab{TaxSlab5, TaxSlab20, TaxSlab30}

const (
	MinHorizonYears = 5
	MaxHorizonYears = 30
	MaxEPFPercent   = 20
)

// MaxAmount bounds every rupee amount a profile may carry.
var MaxAmount = decimal.New(1, 15)

// FinancialProfile is one user's inputs for a single planning request.
// Amounts are monthly except CurrentSavings, all in rupees.
type FinancialProfile struct {
	MonthlyIncome       decimal.Decimal `json:"monthlyIncome" yaml:"monthly_income"`
	MonthlyExpenses     decimal.Decimal `json:"monthlyExpenses" yaml:"monthly_expenses"`
	CurrentSavings      decimal.Decimal `json:"currentSavings" yaml:"current_savings"`
	RiskTolerance       RiskTolerance   `json:"riskTolerance" yaml:"risk_tolerance"`
	InvestmentHorizon   int             `json:"investmentHorizon" yaml:"investment_horizon"`
	FinancialGoals      string          `json:"financialGoals" yaml:"financial_goals"`
	ExistingInvestments string          `json:"existingInvestments,omitempty" yaml:"existing_investments,omitempty"`
	EPFContribution     *int            `json:"epfContribution,omitempty" yaml:"epf_contribution,omitempty"`
	TaxSlab             TaxSlab         `json:"taxSlab,omitempty" yaml:"tax_slab,omitempty"`
}

// DefaultProfile returns the values the input form starts with.
func DefaultProfile() FinancialProfile {
	epf := 12
	return FinancialProfile{
		MonthlyIncome:     decimal.NewFromInt(75000),
		MonthlyExpenses:   decimal.NewFromInt(45000),
		CurrentSavings:    decimal.NewFromInt(150000),
		RiskTolerance:     RiskModerate,
		InvestmentHorizon: 10,
		EPFContribution:   &epf,
		TaxSlab:           TaxSlab30,
	}
}

// SchemaDocument renders the profile as a plain JSON-like document for schema validation.
func (p FinancialProfile) SchemaDocument() map[string]interface{} {
	doc := map[string]interface{}{
		"monthlyIncome":     p.MonthlyIncome.InexactFloat64(),
		"monthlyExpenses":   p.MonthlyExpenses.InexactFloat64(),
		"currentSavings":    p.CurrentSavings.InexactFloat64(),
		"riskTolerance":     string(p.RiskTolerance),
		"investmentHorizon": p.InvestmentHorizon,
		"financialGoals":    p.FinancialGoals,
	}
	if p.ExistingInvestments != "" {
		doc["existingInvestments"] = p.ExistingInvestments
	}
	if p.EPFContribution != nil {
		doc["epfContribution"] = *p.EPFContribution
	}
	if p.TaxSlab != "" {
		doc["taxSlab"] = string(p.TaxSlab)
	}
	return doc
}

// AmountViolations reports amounts outside ±MaxAmount, keyed by JSON field name.
// Such values cannot be represented faithfully in a schema document.
func (p FinancialProfile) AmountViolations() map[string]interface{} {
	fields := map[string]interface{}{}
	for name, d := range map[string]decimal.Decimal{
		"monthlyIncome":   p.MonthlyIncome,
		"monthlyExpenses": p.MonthlyExpenses,
		"currentSavings":  p.CurrentSavings,
	} {
		switch {
		case d.GreaterThan(MaxAmount):
			fields[name] = "MAXIMUM_VIOLATION"
		case d.LessThan(MaxAmount.Neg()):
			fields[name] = "MINIMUM_VIOLATION"
		}
	}
	return fields
}

// SearchQuery is the resource lookup phrase for this profile's risk tier and horizon.
func (p FinancialProfile) SearchQuery() string {
	return fmt.Sprintf("%s risk investments India %d years", p.RiskTolerance, p.InvestmentHorizon)
}
