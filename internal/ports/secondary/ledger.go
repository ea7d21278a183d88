package secondary

import (
	"context"
	"errors"
	"time"

	"github.com/example/gapfill/internal/models"
)

// ErrUnauthorized is returned by a ledger when the credentials are rejected.
// It is fatal for a run.
var ErrUnauthorized = errors.New("ledger rejected credentials")

// ErrMalformedResponse is returned when a ledger reply cannot be decoded.
var ErrMalformedResponse = errors.New("malformed ledger response")

// WorklogLedger defines the secondary port for the time-tracking ledger.
type WorklogLedger interface {
	// GetWorklogs returns the current user's entries logged on day.
	GetWorklogs(ctx context.Context, day time.Time) ([]models.LoggedEntry, error)

	// GetWorklogsRange returns the current user's entries logged in
	// [first, last], in no particular order.
	GetWorklogsRange(ctx context.Context, first, last time.Time) ([]models.LoggedEntry, error)

	// GetUserWorklogsRange is GetWorklogsRange for another user, named by
	// account id or email. An empty user is the current user.
	GetUserWorklogsRange(ctx context.Context, user string, first, last time.Time) ([]models.LoggedEntry, error)

	// PostWorklog adds one worklog entry.
	PostWorklog(ctx context.Context, ticket string, day time.Time, hours float64, comment string) error
}
