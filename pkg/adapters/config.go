package adapters

import (
	"strings"
	"time"

	"github.com/de-tools/report-relay/pkg/models/domain"
	"github.com/de-tools/report-relay/pkg/models/store"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday maps a lowercase weekday name to time.Weekday.
func ParseWeekday(name string) (time.Weekday, bool) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return wd, ok
}

// MapStoreConfigToDomain converts a configuration row into the domain model
// the pipeline consumes. Unknown weekday names are dropped.
func MapStoreConfigToDomain(cfg store.ReportConfig) domain.ReportConfig {
	weekdays := make([]time.Weekday, 0, len(cfg.Weekdays))
	for _, name := range cfg.Weekdays {
		if wd, ok := ParseWeekday(name); ok {
			weekdays = append(weekdays, wd)
		}
	}

	return domain.ReportConfig{
		ID:           cfg.ID,
		Name:         cfg.Name,
		Type:         domain.ReportType(cfg.ReportType),
		RouteIDs:     append([]string(nil), cfg.RouteIDs...),
		RecipientIDs: append([]string(nil), cfg.Recipients...),
		Rule: domain.RecurringRule{
			Weekdays: weekdays,
			Hour:     cfg.Hour,
		},
		Active: cfg.Active,
	}
}
