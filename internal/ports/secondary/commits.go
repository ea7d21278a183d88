package secondary

import (
	"context"
	"time"

	"github.com/example/gapfill/internal/models"
)

// CommitSource defines the secondary port for reading commit history.
type CommitSource interface {
	// ListCommits returns the commits of repo whose committer-local date
	// falls on the dates of since through until, ordered by timestamp
	// ascending.
	ListCommits(ctx context.Context, repo string, since, until time.Time) ([]models.Commit, error)
}
