package secondary

import "context"

// Submission statuses recorded in the journal.
const (
	SubmissionSubmitted = "submitted"
	SubmissionFailed    = "failed"
	SubmissionDryRun    = "dry_run"
)

// SubmissionJournal defines the secondary port for recording submission attempts.
type SubmissionJournal interface {
	// Record persists one attempt. The run id is taken from ctx when the
	// record does not carry one.
	Record(ctx context.Context, rec *SubmissionRecord) error

	// List retrieves attempts, most recent first.
	List(ctx context.Context, filters SubmissionFilters) ([]*SubmissionRecord, error)
}

// SubmissionRecord represents a submission attempt as stored in persistence.
type SubmissionRecord struct {
	ID        int64
	RunID     string
	Ticket    string
	Day       string // YYYY-MM-DD
	Hours     float64
	Comment   string
	Status    string
	Error     string
	CreatedAt string
}

// SubmissionFilters contains filter options for querying the journal.
type SubmissionFilters struct {
	RunID string
	Limit int
}
