package store

import "time"

// ExecutionRecord is one persisted run of a report configuration.
type ExecutionRecord struct {
	RunID      string
	ConfigID   string
	Sent       int
	Failed     int
	NoEndpoint int
	Summary    string
	StartedAt  time.Time
	FinishedAt time.Time
}
