package primary

import (
	"context"
	"time"

	"github.com/example/gapfill/internal/ports/secondary"
)

// ReportService defines the primary port for read-only views of the ledger
// and the submission journal.
type ReportService interface {
	// MonthReport summarizes logged hours from the first of the month up to req.Today.
	MonthReport(ctx context.Context, req ReportRequest) (*MonthReport, error)

	// ListSubmissions lists recorded submission attempts.
	ListSubmissions(ctx context.Context, filters secondary.SubmissionFilters) ([]*secondary.SubmissionRecord, error)
}

// ReportRequest contains parameters for a month report.
type ReportRequest struct {
	Today time.Time
	User  string // account id or email; empty for the current user
}

// ReportDay is one day of a month report.
type ReportDay struct {
	Day      time.Time
	Expected float64
	Logged   float64
	Tickets  map[string]float64
}

// Missing returns the expected hours not yet logged, never negative.
func (d ReportDay) Missing() float64 {
	if d.Logged >= d.Expected {
		return 0
	}
	return d.Expected - d.Logged
}

// MonthReport summarizes a month of the ledger. Days are oldest first.
type MonthReport struct {
	User    string
	First   time.Time
	Today   time.Time
	Days    []ReportDay
	Tickets map[string]float64 // hours per ticket over the month
}

// TotalLogged returns the hours logged over the report.
func (r *MonthReport) TotalLogged() float64 {
	var total float64
	for _, d := range r.Days {
		total += d.Logged
	}
	return total
}

// TotalExpected returns the hours expected over the report.
func (r *MonthReport) TotalExpected() float64 {
	var total float64
	for _, d := range r.Days {
		total += d.Expected
	}
	return total
}
