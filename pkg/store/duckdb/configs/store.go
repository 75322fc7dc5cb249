package configs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/de-tools/report-relay/pkg/models/store"
	"github.com/de-tools/report-relay/pkg/store/duckdb"
)

// Store reads report configurations and records their last execution time.
// Configurations themselves are created and edited by the admin surface.
type Store interface {
	ListAll(ctx context.Context) ([]store.ReportConfig, error)
	ListActive(ctx context.Context) ([]store.ReportConfig, error)
	Get(ctx context.Context, id string) (*store.ReportConfig, error)
	SetLastExecution(ctx context.Context, id string, at time.Time) error
}

type configStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &configStore{db: db}, nil
}

const selectColumns = `
	id, name, report_type,
	COALESCE(route_ids, '[]'), COALESCE(recipients, '[]'), COALESCE(weekdays, '[]'),
	hour, active, last_execution_at`

func (s *configStore) ListAll(ctx context.Context) ([]store.ReportConfig, error) {
	query := fmt.Sprintf("SELECT %s FROM report_configs ORDER BY name", selectColumns)
	return s.list(ctx, query)
}

func (s *configStore) ListActive(ctx context.Context) ([]store.ReportConfig, error) {
	query := fmt.Sprintf("SELECT %s FROM report_configs WHERE active ORDER BY name", selectColumns)
	return s.list(ctx, query)
}

func (s *configStore) list(ctx context.Context, query string, args ...any) ([]store.ReportConfig, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query report configs: %w", err)
	}
	defer rows.Close()

	var configs []store.ReportConfig
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, *cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report configs: %w", err)
	}
	return configs, nil
}

func (s *configStore) Get(ctx context.Context, id string) (*store.ReportConfig, error) {
	query := fmt.Sprintf("SELECT %s FROM report_configs WHERE id = ?", selectColumns)

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query report config %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query report config %s: %w", id, err)
		}
		return nil, fmt.Errorf("report config %s not found", id)
	}
	return scanConfig(rows)
}

func (s *configStore) SetLastExecution(ctx context.Context, id string, at time.Time) error {
	query := "UPDATE report_configs SET last_execution_at = ? WHERE id = ?"

	tx := duckdb.GetTransaction(ctx)
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, at, id)
	} else {
		_, err = s.db.ExecContext(ctx, query, at, id)
	}
	if err != nil {
		return fmt.Errorf("update last execution for %s: %w", id, err)
	}
	return nil
}

func scanConfig(rows *sql.Rows) (*store.ReportConfig, error) {
	var (
		cfg        store.ReportConfig
		routeIDs   string
		recipients string
		weekdays   string
		lastExec   sql.NullTime
	)

	err := rows.Scan(
		&cfg.ID,
		&cfg.Name,
		&cfg.ReportType,
		&routeIDs,
		&recipients,
		&weekdays,
		&cfg.Hour,
		&cfg.Active,
		&lastExec,
	)
	if err != nil {
		return nil, fmt.Errorf("scan report config: %w", err)
	}

	if err := json.Unmarshal([]byte(routeIDs), &cfg.RouteIDs); err != nil {
		return nil, fmt.Errorf("unmarshal route ids for %s: %w", cfg.ID, err)
	}
	if err := json.Unmarshal([]byte(recipients), &cfg.Recipients); err != nil {
		return nil, fmt.Errorf("unmarshal recipients for %s: %w", cfg.ID, err)
	}
	if err := json.Unmarshal([]byte(weekdays), &cfg.Weekdays); err != nil {
		return nil, fmt.Errorf("unmarshal weekdays for %s: %w", cfg.ID, err)
	}
	if lastExec.Valid {
		cfg.LastExecutionAt = &lastExec.Time
	}
	return &cfg, nil
}
