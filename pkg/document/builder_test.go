package document

import (
	"fmt"
	"testing"
	"time"

	"github.com/de-tools/report-relay/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRow(client string, signDate time.Time) domain.ProblemRecord {
	return domain.ProblemRecord{
		Locality:     "Arbor",
		RouteName:    "North",
		ClientName:   client,
		SignDate:     signDate,
		Subject:      domain.SubjectClient,
		Problems:     []string{"missing id card"},
		Observations: "client will bring a replacement next visit",
	}
}

func TestBuilder_EmptyInput(t *testing.T) {
	b := NewBuilder("Document Problem Report")

	pdf := b.render(nil, "March 2026", time.Date(2026, time.March, 18, 0, 0, 0, 0, time.UTC))
	require.NoError(t, pdf.Error())
	assert.Equal(t, 1, pdf.PageCount())

	out, err := b.Build(nil, "March 2026", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestBuilder_WithRows(t *testing.T) {
	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	groups := []domain.WeekGroup{
		{
			Monday: monday,
			Rows: []domain.ProblemRecord{
				sampleRow("Ada", monday.AddDate(0, 0, 1)),
				sampleRow("Bo", monday.AddDate(0, 0, 2)),
			},
		},
	}

	b := NewBuilder("")
	pdf := b.render(groups, "March 2026", time.Now())
	require.NoError(t, pdf.Error())

	// Summary, table and action plan each start a page.
	assert.GreaterOrEqual(t, pdf.PageCount(), 3)
}

func TestBuilder_Pagination(t *testing.T) {
	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	group := domain.WeekGroup{Monday: monday}
	for i := 0; i < 120; i++ {
		group.Rows = append(group.Rows, sampleRow(fmt.Sprintf("Client %03d", i), monday))
	}

	b := NewBuilder("")
	pdf := b.render([]domain.WeekGroup{group}, "March 2026", time.Now())
	require.NoError(t, pdf.Error())

	// 120 rows cannot fit on a single table page.
	assert.Greater(t, pdf.PageCount(), 3)
}

func TestPriorityBuckets(t *testing.T) {
	missing := domain.ProblemRecord{ClientName: "Ada", Problems: []string{"missing id card"}}
	erroneous := domain.ProblemRecord{ClientName: "Bo", Problems: []string{"erroneous contract"}}
	both := domain.ProblemRecord{ClientName: "Cy", Problems: []string{"erroneous contract", "missing id card"}}

	high, medium := priorityBuckets([]domain.ProblemRecord{missing, erroneous, both})

	require.Len(t, high, 2)
	require.Len(t, medium, 1)
	assert.Equal(t, "Bo", medium[0].ClientName)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a long ...", truncate("a long value over budget", 10))
	assert.Equal(t, "unbounded stays intact", truncate("unbounded stays intact", 0))
}
