// pkg/registry/schema.go
package registry

type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one BPMN service task the worker-manager can serve.
type Activity struct {
	ID              string   `json:"id"`
	DisplayName     string   `json:"displayName"`
	Description     string   `json:"description"`
	TaskType        string   `json:"taskType"`
	InputVariables  []string `json:"inputVariables"`
	OutputVariables []string `json:"outputVariables"`
	// ErrorCodes are thrown as BPMN errors; DegradedCodes complete the job with a notice.
	ErrorCodes    []string `json:"errorCodes"`
	DegradedCodes []string `json:"degradedCodes,omitempty"`
	Timeout       string   `json:"timeout"`
	Retries       int      `json:"retries"`
}
