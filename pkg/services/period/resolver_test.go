package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeksOf_MajorityRule(t *testing.T) {
	t.Run("week with more than three working days belongs to the month", func(t *testing.T) {
		// March 2026 starts on a Sunday; the week of Mar 2 is fully inside.
		weeks := WeeksOf(2026, time.March)
		require.NotEmpty(t, weeks)
		assert.Equal(t, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), weeks[0].Monday)
	})

	t.Run("three-day tie goes to the month owning the Monday", func(t *testing.T) {
		// Dec 29 2025 - Jan 3 2026 splits 3/3; its Monday is in December.
		decWeeks := WeeksOf(2025, time.December)
		janWeeks := WeeksOf(2026, time.January)

		boundary := time.Date(2025, time.December, 29, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, boundary, decWeeks[len(decWeeks)-1].Monday)
		assert.Equal(t, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), janWeeks[0].Monday)
	})
}

func TestWeeksOf_TilesWithoutGapsOrOverlap(t *testing.T) {
	// Every Monday-start week across two years must be assigned to exactly
	// one of the two months it can overlap.
	type month struct {
		year int
		m    time.Month
	}

	start := time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC) // a Monday
	for monday := start; monday.Year() < 2027; monday = monday.AddDate(0, 0, 7) {
		saturday := monday.AddDate(0, 0, 5)

		candidates := map[month]bool{
			{monday.Year(), monday.Month()}:     true,
			{saturday.Year(), saturday.Month()}: true,
		}

		owners := 0
		for c := range candidates {
			for _, w := range WeeksOf(c.year, c.m) {
				if w.Monday.Equal(monday) {
					owners++
				}
			}
		}
		assert.Equalf(t, 1, owners, "week of %s owned by %d months", monday.Format("2006-01-02"), owners)
	}
}

func TestCurrent(t *testing.T) {
	t.Run("mid-month instant resolves to its calendar month", func(t *testing.T) {
		now := time.Date(2026, time.March, 18, 10, 0, 0, 0, time.UTC)
		p := Current(now)
		assert.Equal(t, 2026, p.Year)
		assert.Equal(t, time.March, p.Month)
	})

	t.Run("early-month days in a boundary week belong to the prior month", func(t *testing.T) {
		// Mar 1 2026 is a Sunday inside the week of Feb 23.
		now := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)
		p := Current(now)
		assert.Equal(t, time.February, p.Month)
	})
}

func TestPrevious(t *testing.T) {
	t.Run("first assigned week of March resolves to February", func(t *testing.T) {
		now := time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC)
		p := Previous(now)
		assert.Equal(t, 2026, p.Year)
		assert.Equal(t, time.February, p.Month)
	})

	t.Run("later weeks resolve to the current month", func(t *testing.T) {
		now := time.Date(2026, time.March, 18, 12, 0, 0, 0, time.UTC)
		p := Previous(now)
		assert.Equal(t, time.March, p.Month)
	})

	t.Run("first assigned week of January wraps to December of the prior year", func(t *testing.T) {
		now := time.Date(2026, time.January, 6, 9, 0, 0, 0, time.UTC)
		p := Previous(now)
		assert.Equal(t, 2025, p.Year)
		assert.Equal(t, time.December, p.Month)
	})
}

func TestPeriodLabel(t *testing.T) {
	p := Previous(time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "February 2026", p.Label())
}
