package models

import "time"

// LoggedEntry is a worklog already present in the ledger.
type LoggedEntry struct {
	ID      string
	Ticket  string
	Day     time.Time
	Hours   float64
	Comment string
	Author  string
}

// WorklogAction is an intent to add logged time. Hours are always positive;
// gapfill never edits or deletes existing worklogs.
type WorklogAction struct {
	Ticket  string
	Day     time.Time
	Hours   float64
	Comment string
}

// AnomalyKind classifies a non-fatal attribution problem.
type AnomalyKind string

const (
	// AnomalyUnattributed marks a working day where no commit resolved to a ticket.
	AnomalyUnattributed AnomalyKind = "unattributed_day"
	// AnomalyOverLogged marks a ticket with more logged time than its allocation.
	AnomalyOverLogged AnomalyKind = "over_logged"
	// AnomalyBudgetClamped marks an action cut down to the day's remaining hours.
	AnomalyBudgetClamped AnomalyKind = "budget_clamped"
)

// Anomaly is a warning surfaced in the run summary. Anomalies never block
// progress.
type Anomaly struct {
	Day    time.Time
	Kind   AnomalyKind
	Ticket string
	Detail string
}

// TotalHours sums the hours of entries.
func TotalHours(entries []LoggedEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Hours
	}
	return total
}
