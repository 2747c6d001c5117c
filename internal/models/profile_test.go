package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseRiskTolerance(t *testing.T) {
	r, err := ParseRiskTolerance(" aggressive ")
	require.NoError(t, err)
	assert.Equal(t, RiskAggressive, r)

	_, err = ParseRiskTolerance("reckless")
	assert.Error(t, err)
}

func TestFinancialProfile_DecodesJSONNumbersAndStrings(t *testing.T) {
	var p FinancialProfile
	err := json.Unmarshal([]byte(`{
		"monthlyIncome": 75000,
		"monthlyExpenses": "45000.50",
		"currentSavings": 150000,
		"riskTolerance": "Moderate",
		"investmentHorizon": 10,
		"financialGoals": "child education",
		"epfContribution": 12
	}`), &p)

	require.NoError(t, err)
	assert.Equal(t, "75000", p.MonthlyIncome.String())
	assert.Equal(t, "45000.5", p.MonthlyExpenses.String())
	require.NotNil(t, p.EPFContribution)
	assert.Equal(t, 12, *p.EPFContribution)
}

func TestFinancialProfile_DecodesYAML(t *testing.T) {
	var p FinancialProfile
	err := yaml.Unmarshal([]byte(`
monthly_income: 90000
monthly_expenses: 40000
current_savings: 600000
risk_tolerance: Aggressive
investment_horizon: 15
financial_goals: Buy a house in Pune
tax_slab: 20%
`), &p)

	require.NoError(t, err)
	assert.Equal(t, "90000", p.MonthlyIncome.String())
	assert.Equal(t, RiskAggressive, p.RiskTolerance)
	assert.Equal(t, TaxSlab20, p.TaxSlab)
	assert.Nil(t, p.EPFContribution)
}

func TestFinancialProfile_SchemaDocumentOmitsUnsetOptionals(t *testing.T) {
	p := DefaultProfile()
	p.EPFContribution = nil
	p.TaxSlab = ""

	doc := p.SchemaDocument()

	assert.Equal(t, 75000.0, doc["monthlyIncome"])
	assert.NotContains(t, doc, "epfContribution")
	assert.NotContains(t, doc, "taxSlab")
	assert.NotContains(t, doc, "existingInvestments")
}

func TestFinancialProfile_RiskToleranceAnyCasing(t *testing.T) {
	var fromJSON FinancialProfile
	require.NoError(t, json.Unmarshal([]byte(`{"riskTolerance": "moderate"}`), &fromJSON))
	assert.Equal(t, RiskModerate, fromJSON.RiskTolerance)

	var fromYAML FinancialProfile
	require.NoError(t, yaml.Unmarshal([]byte("risk_tolerance: CONSERVATIVE\n"), &fromYAML))
	assert.Equal(t, RiskConservative, fromYAML.RiskTolerance)

	var unknown FinancialProfile
	require.NoError(t, json.Unmarshal([]byte(`{"riskTolerance": "reckless"}`), &unknown))
	assert.Equal(t, RiskTolerance("reckless"), unknown.RiskTolerance)
}

func TestFinancialProfile_AmountViolations(t *testing.T) {
	p := DefaultProfile()
	assert.Empty(t, p.AmountViolations())

	p.MonthlyIncome = decimal.RequireFromString("1e400")
	p.CurrentSavings = decimal.RequireFromString("-20000000000000000000")
	p.MonthlyExpenses = MaxAmount

	assert.Equal(t, map[string]interface{}{
		"monthlyIncome":  "MAXIMUM_VIOLATION",
		"currentSavings": "MINIMUM_VIOLATION",
	}, p.AmountViolations())
}

func TestFinancialProfile_SearchQuery(t *testing.T) {
	p := DefaultProfile()
	assert.Equal(t, "Moderate risk investments India 10 years", p.SearchQuery())
}

func TestCredentials(t *testing.T) {
	assert.Equal(t, []string{CredentialSearch, CredentialGenAI}, Credentials{}.Missing())
	assert.Empty(t, Credentials{SearchAPIKey: "s", GenAIAPIKey: "g"}.Missing())

	merged := Credentials{GenAIAPIKey: "request"}.WithFallback(Credentials{SearchAPIKey: "cfg", GenAIAPIKey: "cfg"})
	assert.Equal(t, "cfg", merged.SearchAPIKey)
	assert.Equal(t, "request", merged.GenAIAPIKey)

	raw, err := json.Marshal(merged)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw))
}
