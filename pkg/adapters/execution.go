package adapters

import (
	"github.com/de-tools/report-relay/pkg/models/api"
	"github.com/de-tools/report-relay/pkg/models/domain"
	"github.com/de-tools/report-relay/pkg/models/store"
)

// MapDomainExecutionToStore converts a run result into its history row.
func MapDomainExecutionToStore(res domain.ExecutionResult) store.ExecutionRecord {
	return store.ExecutionRecord{
		RunID:      res.RunID,
		ConfigID:   res.ConfigID,
		Sent:       res.Sent,
		Failed:     res.Failed,
		NoEndpoint: len(res.NoEndpoint),
		Summary:    res.Summary(),
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
	}
}

// MapDomainExecutionToAPI converts a run result into the admin API response.
func MapDomainExecutionToAPI(res domain.ExecutionResult) api.ExecutionResult {
	noEndpoint := res.NoEndpoint
	if noEndpoint == nil {
		noEndpoint = []string{}
	}
	return api.ExecutionResult{
		RunID:           res.RunID,
		ConfigID:        res.ConfigID,
		Sent:            res.Sent,
		Failed:          res.Failed,
		NoEndpoint:      noEndpoint,
		Summary:         res.Summary(),
		NextExecutionAt: res.NextExecutionAt,
	}
}

// MapStoreConfigToAPI converts a configuration row into the read-only admin
// listing shape.
func MapStoreConfigToAPI(cfg store.ReportConfig) api.ReportConfig {
	return api.ReportConfig{
		ID:              cfg.ID,
		Name:            cfg.Name,
		Type:            cfg.ReportType,
		Active:          cfg.Active,
		Weekdays:        append([]string(nil), cfg.Weekdays...),
		Hour:            cfg.Hour,
		LastExecutionAt: cfg.LastExecutionAt,
	}
}
