// internal/workers/planning/validate-financial-profile/config.go
package validatefinancialprofile

import (
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	// ExpenseRatioLimit is the largest share of income expenses may take.
	ExpenseRatioLimit decimal.Decimal
	// EmergencyFundMonths is the multiple of monthly income savings should cover.
	EmergencyFundMonths int64
	GoalKeywords        []string
	Timeout             time.Duration
}

var DefaultGoalKeywords = []string{"child", "education", "retirement", "house", "marriage"}

func LoadConfig() *Config {
	return &Config{
		ExpenseRatioLimit:   decimal.RequireFromString("0.7"),
		EmergencyFundMonths: 6,
		GoalKeywords:        DefaultGoalKeywords,
		Timeout:             5 * time.Second,
	}
}
