// internal/workers/planning/generate-financial-plan/config.go
package generatefinancialplan

import "time"

type Config struct {
	Model string
	// GenAIAPIKey is used when the input carries no key of its own.
	GenAIAPIKey  string
	GenAIBaseURL string
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Model:   "gemini-2.0-flash",
		Timeout: 90 * time.Second,
	}
}
