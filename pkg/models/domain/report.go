package domain

import "time"

// ReportType identifies the kind of report a configuration produces.
type ReportType string

const (
	ReportTypeDocumentProblems  ReportType = "document_problems"
	ReportTypePortfolioSummary  ReportType = "portfolio_summary"
	ReportTypeWeeklyCollections ReportType = "weekly_collections"
	ReportTypeOverduePayments   ReportType = "overdue_payments"
)

// RecurringRule describes when a configuration fires: a set of weekdays and
// an hour of the day. The weekday set must be non-empty for periodic types.
type RecurringRule struct {
	Weekdays []time.Weekday
	Hour     int // 0..23
}

// Contains reports whether the rule covers the given weekday.
func (r RecurringRule) Contains(wd time.Weekday) bool {
	for _, d := range r.Weekdays {
		if d == wd {
			return true
		}
	}
	return false
}

// ReportConfig is a recurring report definition. It is owned and edited by
// the admin surface; the pipeline reads it as a snapshot at trigger time.
type ReportConfig struct {
	ID           string
	Name         string
	Type         ReportType
	RouteIDs     []string // empty = all routes
	RecipientIDs []string
	Rule         RecurringRule
	Active       bool
}
