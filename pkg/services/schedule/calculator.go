package schedule

import (
	"fmt"
	"time"

	"github.com/de-tools/report-relay/pkg/models/domain"
)

// Next computes the next execution instant for a recurring rule, strictly
// after now. The search starts at tomorrow and scans forward seven days for
// the first weekday in the rule's set, so a rule matching today never fires
// on the same day even when the rule's hour is still ahead of now.
func Next(rule domain.RecurringRule, now time.Time) (time.Time, error) {
	if len(rule.Weekdays) == 0 {
		return time.Time{}, fmt.Errorf("recurring rule has no weekdays")
	}
	if rule.Hour < 0 || rule.Hour > 23 {
		return time.Time{}, fmt.Errorf("recurring rule hour %d out of range", rule.Hour)
	}

	for offset := 1; offset <= 7; offset++ {
		day := now.AddDate(0, 0, offset)
		if rule.Contains(day.Weekday()) {
			next := time.Date(day.Year(), day.Month(), day.Day(), rule.Hour, 0, 0, 0, now.Location())
			return next, nil
		}
	}

	// Unreachable with a non-empty weekday set: offsets 1..7 cover every
	// weekday once.
	return time.Time{}, fmt.Errorf("no matching weekday within a week")
}

// Earliest computes the earliest next execution across the given rules.
// Rules that fail to resolve are skipped; ok is false when none resolved.
func Earliest(rules []domain.RecurringRule, now time.Time) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, rule := range rules {
		next, err := Next(rule, now)
		if err != nil {
			continue
		}
		if !found || next.Before(earliest) {
			earliest = next
			found = true
		}
	}
	return earliest, found
}
