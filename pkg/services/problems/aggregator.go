package problems

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/de-tools/report-relay/pkg/models/domain"
	"github.com/de-tools/report-relay/pkg/models/store"
	"github.com/de-tools/report-relay/pkg/store/duckdb/loans"
)

// Aggregator turns flagged loan documents from a trailing two-calendar-month
// window into the row list the document builder consumes.
type Aggregator interface {
	Collect(ctx context.Context, routeIDs []string, now time.Time) ([]domain.ProblemRecord, error)
}

type aggregator struct {
	loans loans.Store
}

func NewAggregator(loanStore loans.Store) Aggregator {
	return &aggregator{loans: loanStore}
}

func (a *aggregator) Collect(
	ctx context.Context,
	routeIDs []string,
	now time.Time,
) ([]domain.ProblemRecord, error) {
	from := now.AddDate(0, -2, 0)

	flagged, err := a.loans.GetProblemLoans(ctx, routeIDs, from, now)
	if err != nil {
		return nil, fmt.Errorf("collect problem loans: %w", err)
	}

	var records []domain.ProblemRecord
	for _, loan := range flagged {
		for _, subject := range []domain.SubjectType{domain.SubjectClient, domain.SubjectGuarantor} {
			if rec, ok := buildRecord(loan, subject); ok {
				records = append(records, rec)
			}
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Locality != records[j].Locality {
			return records[i].Locality < records[j].Locality
		}
		return records[i].SignDate.After(records[j].SignDate)
	})
	return records, nil
}

// buildRecord emits one row per subject, but only when at least one of the
// subject's documents is explicitly flagged.
func buildRecord(loan store.Loan, subject domain.SubjectType) (domain.ProblemRecord, bool) {
	var (
		problems     []string
		observations []string
	)
	for _, doc := range loan.Documents {
		if doc.Subject != string(subject) {
			continue
		}
		if doc.IsMissing {
			problems = append(problems, "missing "+docLabel(doc.DocType))
		}
		if doc.IsError {
			problems = append(problems, "erroneous "+docLabel(doc.DocType))
		}
		if (doc.IsMissing || doc.IsError) && doc.Detail != "" {
			observations = append(observations, doc.Detail)
		}
	}

	if len(problems) == 0 {
		return domain.ProblemRecord{}, false
	}

	return domain.ProblemRecord{
		Locality:     loan.Locality,
		RouteName:    loan.RouteName,
		ClientName:   loan.ClientName,
		SignDate:     loan.SignDate,
		Subject:      subject,
		Problems:     problems,
		Observations: strings.Join(observations, "; "),
	}, true
}

func docLabel(docType string) string {
	return strings.ReplaceAll(docType, "_", " ")
}

// GroupByWeek buckets rows by the Monday of their sign-date week, most
// recent week first. Row order inside a group is preserved.
func GroupByWeek(records []domain.ProblemRecord) []domain.WeekGroup {
	index := make(map[time.Time]int)
	var groups []domain.WeekGroup
	for _, rec := range records {
		monday := mondayOf(rec.SignDate)
		i, ok := index[monday]
		if !ok {
			i = len(groups)
			index[monday] = i
			groups = append(groups, domain.WeekGroup{Monday: monday})
		}
		groups[i].Rows = append(groups[i].Rows, rec)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Monday.After(groups[j].Monday)
	})
	return groups
}

func mondayOf(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
