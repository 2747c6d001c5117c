// internal/models/resources.go
package models

// SearchResult is one organic result from the search API, in API order.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// Credentials are the two per-request API keys. They never serialize.
type Credentials struct {
	SearchAPIKey string `json:"-" yaml:"-"`
	GenAIAPIKey  string `json:"-" yaml:"-"`
}

const (
	CredentialSearch = "search"
	CredentialGenAI  = "genai"
)

// Missing lists which keys are blank.
func (c Credentials) Missing() []string {
	var missing []string
	if c.SearchAPIKey == "" {
		missing = append(missing, CredentialSearch)
	}
	if c.GenAIAPIKey == "" {
		missing = append(missing, CredentialGenAI)
	}
	return missing
}

// WithFallback fills blank keys from fallback.
func (c Credentials) WithFallback(fallback Credentials) Credentials {
	if c.SearchAPIKey == "" {
		c.SearchAPIKey = fallback.SearchAPIKey
	}
	if c.GenAIAPIKey == "" {
		c.GenAIAPIKey = fallback.GenAIAPIKey
	}
	return c
}
