// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import (
	"context"
	"time"

	"github.com/example/gapfill/internal/models"
)

// ReconcileService defines the primary port for filling worklog gaps.
type ReconcileService interface {
	// Reconcile walks from req.Today back to the first of its month and
	// proposes, or when req.Publish is set submits, the missing worklogs.
	Reconcile(ctx context.Context, req ReconcileRequest) (*RunSummary, error)
}

// ReconcileRequest contains parameters for a reconciliation run.
type ReconcileRequest struct {
	Today     time.Time
	Hint      string // current task, used when a commit names no ticket
	HintScope string // first_day_only or every_day; empty uses the configured scope
	Publish   bool
}

// FailedAction is a worklog action the ledger refused.
type FailedAction struct {
	Action models.WorklogAction
	Reason string
}

// DayOutcome is the result of one day of the walk.
type DayOutcome struct {
	Day       time.Time
	Phase     string
	Expected  float64
	Vacation  bool
	Logged    float64
	Remaining float64

	Actions   []models.WorklogAction // proposed
	Submitted []models.WorklogAction
	Failed    []FailedAction
	Anomalies []models.Anomaly

	Reason string // set when Phase is failed
}

// RunSummary is the result of a reconciliation run. Days are most recent first.
type RunSummary struct {
	RunID   string
	Today   time.Time
	First   time.Time
	Publish bool
	Days    []DayOutcome
}

// ProposedHours returns the hours of every proposed action.
func (s *RunSummary) ProposedHours() float64 {
	var total float64
	for _, d := range s.Days {
		for _, a := range d.Actions {
			total += a.Hours
		}
	}
	return total
}

// SubmittedHours returns the hours the ledger accepted.
func (s *RunSummary) SubmittedHours() float64 {
	var total float64
	for _, d := range s.Days {
		for _, a := range d.Submitted {
			total += a.Hours
		}
	}
	return total
}

// FailedHours returns the hours the ledger refused.
func (s *RunSummary) FailedHours() float64 {
	var total float64
	for _, d := range s.Days {
		for _, f := range d.Failed {
			total += f.Action.Hours
		}
	}
	return total
}

// FailedDays returns the days whose data could not be retrieved.
func (s *RunSummary) FailedDays() []DayOutcome {
	var out []DayOutcome
	for _, d := range s.Days {
		if d.Reason != "" {
			out = append(out, d)
		}
	}
	return out
}
