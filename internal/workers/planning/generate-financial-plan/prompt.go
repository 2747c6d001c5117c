package generatefinancialplan

import (
	"strconv"
	"strings"
	"text/template"
	"time"

	"wealth-planner/internal/models"
)

const promptTemplate = `As a SEBI-registered financial advisor, create a detailed {{.Year}} financial plan for an Indian resident, selecting the most suitable strategy based on their financial profile.

CLIENT PROFILE:
- Monthly Income: ₹{{.Income}}
- Monthly Expenses: ₹{{.Expenses}}
- Current Savings: ₹{{.Savings}}
- Risk Tolerance: {{.Risk}}
- Investment Horizon: {{.Horizon}} years
- Financial Goals: {{.Goals}}
- Existing Investments: {{.Existing}}
- EPF Contributions: {{.EPF}}% of salary
- Tax Slab: {{.TaxSlab}}

INDIAN MARKET CONTEXT:
- Current RBI repo rate (~6.5%), inflation (~5-6%)
- Tax-saving instruments (80C, 80D, HRA)
- Indian investment options (PPF, NPS, ELSS, FDs, Bonds, REITs, SGBs, ETFs)
- Conservative return estimates: Equity (7-9%), Debt (6-7%), FDs (4-5%)
{{- if .Resources}}

CURATED RESOURCES:
{{- range .Resources}}
- {{.Title}}{{if .Link}} ({{.Link}}){{end}}{{if .Snippet}}: {{.Snippet}}{{end}}
{{- end}}
{{- end}}

REQUIRED OUTPUT:
1. Emergency Fund Strategy (6-12 months expenses in Liquid Mutual Funds/FDs)
2. Debt Management Plan (Compare loan rate vs. expected return, prepayment strategy)
3. Budget Plan (Choose between 50/30/20, zero-based budgeting, or custom allocation)
4. Investment Strategy (Risk-based allocation selection):
   - **Conservative:** Higher debt allocation (FDs, Bonds, Debt MFs)
   - **Balanced:** Mix of Equity (MFs, ETFs), Debt, and Gold
   - **Aggressive:** Higher equity focus (Stocks, Small-Cap, International MFs)
5. Tax Optimization Plan (Best use of 80C, 80D, LTCG exemptions)
6. Insurance Recommendations (Term Life, Health, Critical Illness, Disability)
7. 5-Year Financial Roadmap (Inflation-adjusted, periodic rebalancing)

Format guidelines:
- Use concise bullet points & tables for allocation breakdown
- Include scenario-based strategy recommendations
- Ensure SEBI/RBI compliance with references to latest Indian tax regulations
`

var prompt = template.Must(template.New("plan").Parse(promptTemplate))

type promptData struct {
	Year      int
	Income    string
	Expenses  string
	Savings   string
	Risk      string
	Horizon   int
	Goals     string
	Existing  string
	EPF       string
	TaxSlab   string
	Resources []models.SearchResult
}

func newPromptData(input *Input, now time.Time) promptData {
	p := input.Profile
	data := promptData{
		Year:      now.Year(),
		Income:    models.FormatAmount(p.MonthlyIncome),
		Expenses:  models.FormatAmount(p.MonthlyExpenses),
		Savings:   models.FormatAmount(p.CurrentSavings),
		Risk:      string(p.RiskTolerance),
		Horizon:   p.InvestmentHorizon,
		Goals:     strings.TrimSpace(p.FinancialGoals),
		Existing:  strings.TrimSpace(p.ExistingInvestments),
		EPF:       "0",
		TaxSlab:   string(p.TaxSlab),
		Resources: input.Resources,
	}
	if data.Existing == "" {
		data.Existing = "None"
	}
	if p.EPFContribution != nil {
		data.EPF = strconv.Itoa(*p.EPFContribution)
	}
	if data.TaxSlab == "" {
		data.TaxSlab = string(models.TaxSlab30)
	}
	return data
}

// BuildPrompt renders the plan prompt for input as of now.
func BuildPrompt(input *Input, now time.Time) (string, error) {
	var sb strings.Builder
	if err := prompt.Execute(&sb, newPromptData(input, now)); err != nil {
		return "", err
	}
	return sb.String(), nil
}
