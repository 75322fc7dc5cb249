package domain

import (
	"fmt"
	"time"
)

// ExecutionResult is the tally of one orchestration run for a single
// configuration. It is surfaced to the admin UI and persisted as history.
type ExecutionResult struct {
	RunID      string
	ConfigID   string
	Sent       int
	Failed     int
	NoEndpoint []string // recipient ids with no active chat endpoint

	StartedAt       time.Time
	FinishedAt      time.Time
	NextExecutionAt time.Time
}

// Summary renders a one-line human-readable tally for status displays.
func (r ExecutionResult) Summary() string {
	return fmt.Sprintf("sent %d, failed %d, without endpoint %d", r.Sent, r.Failed, len(r.NoEndpoint))
}
