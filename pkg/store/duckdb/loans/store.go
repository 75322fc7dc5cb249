package loans

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/report-relay/pkg/models/store"
)

// Store reads loan rows with their flagged document records. Only documents
// explicitly marked erroneous or missing are returned; absence of document
// rows is not a problem.
type Store interface {
	GetProblemLoans(ctx context.Context, routeIDs []string, from, to time.Time) ([]store.Loan, error)
	CountLoans(ctx context.Context, routeIDs []string, from, to time.Time) ([]store.RouteCount, error)
}

type loanStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &loanStore{db: db}, nil
}

func (s *loanStore) GetProblemLoans(
	ctx context.Context,
	routeIDs []string,
	from, to time.Time,
) ([]store.Loan, error) {
	query := `
		SELECT l.id, l.route_id, l.route_name, l.locality, l.client_name, l.sign_date,
		       d.subject, d.doc_type, d.is_error, d.is_missing, COALESCE(d.detail, '')
		FROM loans l
		JOIN loan_documents d ON d.loan_id = l.id
		WHERE l.sign_date >= ? AND l.sign_date < ?
		  AND (d.is_error OR d.is_missing)`

	args := []any{from, to}
	if len(routeIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(routeIDs)), ", ")
		query += fmt.Sprintf(" AND l.route_id IN (%s)", placeholders)
		for _, id := range routeIDs {
			args = append(args, id)
		}
	}
	query += " ORDER BY l.locality ASC, l.sign_date DESC, l.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query problem loans: %w", err)
	}
	defer rows.Close()

	var loans []store.Loan
	index := make(map[string]int)
	for rows.Next() {
		var (
			loan store.Loan
			doc  store.LoanDocument
		)
		err := rows.Scan(
			&loan.ID,
			&loan.RouteID,
			&loan.RouteName,
			&loan.Locality,
			&loan.ClientName,
			&loan.SignDate,
			&doc.Subject,
			&doc.DocType,
			&doc.IsError,
			&doc.IsMissing,
			&doc.Detail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan problem loan: %w", err)
		}
		doc.LoanID = loan.ID

		i, ok := index[loan.ID]
		if !ok {
			i = len(loans)
			index[loan.ID] = i
			loans = append(loans, loan)
		}
		loans[i].Documents = append(loans[i].Documents, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate problem loans: %w", err)
	}
	return loans, nil
}

func (s *loanStore) CountLoans(
	ctx context.Context,
	routeIDs []string,
	from, to time.Time,
) ([]store.RouteCount, error) {
	query := `
		SELECT route_name, COUNT(*), COUNT(DISTINCT locality)
		FROM loans
		WHERE sign_date >= ? AND sign_date < ?`

	args := []any{from, to}
	if len(routeIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(routeIDs)), ", ")
		query += fmt.Sprintf(" AND route_id IN (%s)", placeholders)
		for _, id := range routeIDs {
			args = append(args, id)
		}
	}
	query += " GROUP BY route_name ORDER BY route_name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count loans: %w", err)
	}
	defer rows.Close()

	var counts []store.RouteCount
	for rows.Next() {
		var c store.RouteCount
		if err := rows.Scan(&c.RouteName, &c.Loans, &c.Localities); err != nil {
			return nil, fmt.Errorf("scan route count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate route counts: %w", err)
	}
	return counts, nil
}
