package store

import "time"

// ReportConfig is a report configuration row.
type ReportConfig struct {
	ID         string
	Name       string
	ReportType string
	RouteIDs   []string
	Recipients []string
	Weekdays   []string // lowercase weekday names, e.g. "monday"
	Hour       int
	Active     bool

	LastExecutionAt *time.Time
}

// Recipient maps a platform user id to at most one active chat endpoint.
type Recipient struct {
	UserID string
	ChatID int64
	Active bool
}
