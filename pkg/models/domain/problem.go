package domain

import "time"

// SubjectType says whose documents a problem row refers to.
type SubjectType string

const (
	SubjectClient    SubjectType = "CLIENT"
	SubjectGuarantor SubjectType = "GUARANTOR"
)

// ProblemRecord is one row of the document-problem report. Records are
// computed fresh per generation run and never persisted.
type ProblemRecord struct {
	Locality     string
	RouteName    string
	ClientName   string
	SignDate     time.Time
	Subject      SubjectType
	Problems     []string
	Observations string
}

// WeekGroup is a display grouping of problem rows by the Monday of the week
// their loan was signed in.
type WeekGroup struct {
	Monday time.Time
	Rows   []ProblemRecord
}
