package domain

import (
	"fmt"
	"time"
)

// Period is a {year, month} reporting bucket. Which month owns a given week
// at a month boundary is decided by the majority-working-day rule in
// services/period.
type Period struct {
	Year  int
	Month time.Month
}

// Label returns the human-readable month label, e.g. "February 2026".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.Month.String(), p.Year)
}

// Start returns the first instant of the period's calendar month.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following month.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}
