// internal/workers/planning/search-financial-resources/config.go
package searchfinancialresources

import "time"

type Config struct {
	SearchAPIBaseURL string
	// SearchAPIKey is used when the input carries no key of its own.
	SearchAPIKey   string
	Engine         string
	AllowedDomains []string
	Timeout        time.Duration
	MaxResults     int
}

func LoadConfig() *Config {
	return &Config{
		SearchAPIBaseURL: "https://serpapi.com/search",
		Engine:           "google",
		AllowedDomains: []string{
			"cleartax.in",
			"groww.in",
			"economictimes.indiatimes.com",
			"moneycontrol.com",
		},
		Timeout:    10 * time.Second,
		MaxResults: 2,
	}
}
