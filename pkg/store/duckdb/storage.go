package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const ReportConfigsSchema = `
	CREATE TABLE IF NOT EXISTS report_configs (
		id VARCHAR NOT NULL PRIMARY KEY,
		name VARCHAR NOT NULL,
		report_type VARCHAR NOT NULL,
		route_ids JSON,
		recipients JSON,
		weekdays JSON,
		hour INTEGER NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		last_execution_at TIMESTAMP NULL
	);
`

const RecipientsSchema = `
	CREATE TABLE IF NOT EXISTS recipients (
		user_id VARCHAR NOT NULL PRIMARY KEY,
		chat_id BIGINT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);
`

const LoansSchema = `
	CREATE TABLE IF NOT EXISTS loans (
		id VARCHAR NOT NULL PRIMARY KEY,
		route_id VARCHAR NOT NULL,
		route_name VARCHAR NOT NULL,
		locality VARCHAR NOT NULL,
		client_name VARCHAR NOT NULL,
		sign_date TIMESTAMP NOT NULL
	);
`

const LoanDocumentsSchema = `
	CREATE TABLE IF NOT EXISTS loan_documents (
		loan_id VARCHAR NOT NULL,
		subject VARCHAR NOT NULL,
		doc_type VARCHAR NOT NULL,
		is_error BOOLEAN NOT NULL DEFAULT FALSE,
		is_missing BOOLEAN NOT NULL DEFAULT FALSE,
		detail VARCHAR
	);
`

const ExecutionsSchema = `
	CREATE TABLE IF NOT EXISTS executions (
		run_id VARCHAR NOT NULL PRIMARY KEY,
		config_id VARCHAR NOT NULL,
		sent INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		no_endpoint INTEGER NOT NULL,
		summary VARCHAR,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL
	);
`

var bootQueries = []string{
	ReportConfigsSchema,
	RecipientsSchema,
	LoansSchema,
	LoanDocumentsSchema,
	ExecutionsSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}

type txKey struct{}

// WithTransaction binds a transaction to the context so store writes inside
// one run share it.
func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func GetTransaction(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}
