package executions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/report-relay/pkg/models/store"
	"github.com/de-tools/report-relay/pkg/store/duckdb"
)

// Store persists run history for the admin surface.
type Store interface {
	Add(ctx context.Context, record store.ExecutionRecord) error
	ListRecent(ctx context.Context, limit int) ([]store.ExecutionRecord, error)
}

type executionStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &executionStore{db: db}, nil
}

func (s *executionStore) Add(ctx context.Context, record store.ExecutionRecord) error {
	query := `
		INSERT INTO executions (
			run_id, config_id, sent, failed, no_endpoint, summary, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	args := []any{
		record.RunID,
		record.ConfigID,
		record.Sent,
		record.Failed,
		record.NoEndpoint,
		record.Summary,
		record.StartedAt,
		record.FinishedAt,
	}

	tx := duckdb.GetTransaction(ctx)
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
	} else {
		_, err = s.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		return fmt.Errorf("insert execution record: %w", err)
	}
	return nil
}

func (s *executionStore) ListRecent(ctx context.Context, limit int) ([]store.ExecutionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT run_id, config_id, sent, failed, no_endpoint, COALESCE(summary, ''), started_at, finished_at
		FROM executions
		ORDER BY finished_at DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query executions: %w", err)
	}
	defer rows.Close()

	var records []store.ExecutionRecord
	for rows.Next() {
		var r store.ExecutionRecord
		err := rows.Scan(
			&r.RunID,
			&r.ConfigID,
			&r.Sent,
			&r.Failed,
			&r.NoEndpoint,
			&r.Summary,
			&r.StartedAt,
			&r.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan execution record: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate executions: %w", err)
	}
	return records, nil
}
