package period

import (
	"time"

	"github.com/de-tools/report-relay/pkg/models/domain"
)

// Week is a Monday-start reporting week. Its six working days run Monday
// through Saturday.
type Week struct {
	Monday time.Time
}

// workingDaysIn counts the week's working days falling inside the given
// calendar month.
func (w Week) workingDaysIn(year int, month time.Month) int {
	days := 0
	for i := 0; i < 6; i++ {
		d := w.Monday.AddDate(0, 0, i)
		if d.Year() == year && d.Month() == month {
			days++
		}
	}
	return days
}

// WeeksOf returns the reporting weeks assigned to a calendar month. Every
// Monday-start week intersecting the month is considered, from the Monday on
// or before the 1st through the last week starting inside the month. A week
// belongs to the month when more than three of its working days fall inside
// it, or exactly three and its Monday is inside it.
func WeeksOf(year int, month time.Month) []Week {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	var weeks []Week
	for start := mondayOnOrBefore(first); !start.After(last); start = start.AddDate(0, 0, 7) {
		w := Week{Monday: start}
		days := w.workingDaysIn(year, month)
		if days > 3 || (days == 3 && start.Year() == year && start.Month() == month) {
			weeks = append(weeks, w)
		}
	}
	return weeks
}

// Current resolves the period owning the reporting week that contains now.
// At a month boundary this may differ from now's calendar month.
func Current(now time.Time) domain.Period {
	monday := mondayOnOrBefore(now)

	// The week overlaps at most two months; exactly one of them owns it.
	candidates := []time.Time{monday, monday.AddDate(0, 0, 5)}
	for _, c := range candidates {
		year, month := c.Year(), c.Month()
		for _, w := range WeeksOf(year, month) {
			if sameDate(w.Monday, monday) {
				return domain.Period{Year: year, Month: month}
			}
		}
	}

	return domain.Period{Year: now.Year(), Month: now.Month()}
}

// Previous resolves the previous reporting period relative to now. When now
// falls in the first assigned week of its month the previous period is the
// prior month (December of the prior year at a year boundary); otherwise it
// is the current month. Resolution is at month granularity.
func Previous(now time.Time) domain.Period {
	cur := Current(now)
	monday := mondayOnOrBefore(now)

	weeks := WeeksOf(cur.Year, cur.Month)
	if len(weeks) > 0 && sameDate(weeks[0].Monday, monday) {
		year, month := cur.Year, cur.Month-1
		if month < time.January {
			year, month = year-1, time.December
		}
		return domain.Period{Year: year, Month: month}
	}
	return cur
}

func mondayOnOrBefore(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
