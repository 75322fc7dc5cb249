package adapters

import (
	"testing"
	"time"

	"github.com/de-tools/report-relay/pkg/models/domain"
	"github.com/de-tools/report-relay/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	wd, ok := ParseWeekday("Monday")
	require.True(t, ok)
	assert.Equal(t, time.Monday, wd)

	wd, ok = ParseWeekday("  friday ")
	require.True(t, ok)
	assert.Equal(t, time.Friday, wd)

	_, ok = ParseWeekday("someday")
	assert.False(t, ok)
}

func TestMapStoreConfigToDomain(t *testing.T) {
	row := store.ReportConfig{
		ID:         "cfg-1",
		Name:       "Weekly problems",
		ReportType: "document_problems",
		RouteIDs:   []string{"r1"},
		Recipients: []string{"U1", "U2"},
		Weekdays:   []string{"monday", "someday", "thursday"},
		Hour:       9,
		Active:     true,
	}

	cfg := MapStoreConfigToDomain(row)

	assert.Equal(t, domain.ReportTypeDocumentProblems, cfg.Type)
	assert.Equal(t, []string{"U1", "U2"}, cfg.RecipientIDs)
	// Unknown weekday names are dropped, not errors.
	assert.Equal(t, []time.Weekday{time.Monday, time.Thursday}, cfg.Rule.Weekdays)
	assert.Equal(t, 9, cfg.Rule.Hour)
}

func TestMapDomainExecutionToAPI(t *testing.T) {
	res := domain.ExecutionResult{
		RunID:    "run-1",
		ConfigID: "cfg-1",
		Sent:     2,
		Failed:   1,
	}

	out := MapDomainExecutionToAPI(res)

	assert.Equal(t, "run-1", out.RunID)
	assert.NotNil(t, out.NoEndpoint, "empty list must serialize as [], not null")
	assert.NotEmpty(t, out.Summary)
}
