package api

import "time"

// SchedulerStatus is the admin-surface view of the pipeline state.
type SchedulerStatus struct {
	Running         bool       `json:"running"`
	ActiveConfigs   int        `json:"active_configs"`
	NextExecutionAt *time.Time `json:"next_execution_at,omitempty"`
	LastExecutionAt *time.Time `json:"last_execution_at,omitempty"`
}

// ReportConfig is the read-only admin listing of a configuration.
type ReportConfig struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Active          bool       `json:"active"`
	Weekdays        []string   `json:"weekdays"`
	Hour            int        `json:"hour"`
	LastExecutionAt *time.Time `json:"last_execution_at,omitempty"`
}

// ExecutionResult is the per-run tally returned by the manual run endpoint.
type ExecutionResult struct {
	RunID           string    `json:"run_id"`
	ConfigID        string    `json:"config_id"`
	Sent            int       `json:"sent"`
	Failed          int       `json:"failed"`
	NoEndpoint      []string  `json:"recipients_without_endpoint"`
	Summary         string    `json:"summary"`
	NextExecutionAt time.Time `json:"next_execution_at"`
}
