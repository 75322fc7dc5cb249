package store

import "time"

// Loan is a loan row joined with its route, as read from the loan store.
type Loan struct {
	ID         string
	RouteID    string
	RouteName  string
	Locality   string
	ClientName string
	SignDate   time.Time

	Documents []LoanDocument
}

// RouteCount is the per-route loan tally used by the portfolio summary.
type RouteCount struct {
	RouteName  string
	Loans      int
	Localities int
}

// LoanDocument is one document flag attached to a loan, either for the
// borrower or for the first guarantor.
type LoanDocument struct {
	LoanID    string
	Subject   string // CLIENT or GUARANTOR
	DocType   string
	IsError   bool
	IsMissing bool
	Detail    string
}
