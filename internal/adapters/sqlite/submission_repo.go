// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/gapfill/internal/ctxutil"
	"github.com/example/gapfill/internal/ports/secondary"
)

// SubmissionRepository implements secondary.SubmissionJournal with SQLite.
type SubmissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository creates a new SQLite submission journal.
func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

var _ secondary.SubmissionJournal = (*SubmissionRepository)(nil)

// Record persists one submission attempt and sets rec.ID.
func (r *SubmissionRepository) Record(ctx context.Context, rec *secondary.SubmissionRecord) error {
	if rec.RunID == "" {
		rec.RunID = ctxutil.RunFromContext(ctx)
	}
	if rec.RunID == "" {
		return fmt.Errorf("submission for %s on %s has no run id", rec.Ticket, rec.Day)
	}

	var comment, errText sql.NullString
	if rec.Comment != "" {
		comment = sql.NullString{String: rec.Comment, Valid: true}
	}
	if rec.Error != "" {
		errText = sql.NullString{String: rec.Error, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO submissions (run_id, ticket, day, hours, comment, status, error) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.RunID, rec.Ticket, rec.Day, rec.Hours, comment, rec.Status, errText,
	)
	if err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read submission id: %w", err)
	}
	rec.ID = id
	return nil
}

// List retrieves submission attempts, most recent first.
func (r *SubmissionRepository) List(ctx context.Context, filters secondary.SubmissionFilters) ([]*secondary.SubmissionRecord, error) {
	query := "SELECT id, run_id, ticket, day, hours, comment, status, error, created_at FROM submissions WHERE 1=1"
	args := []any{}

	if filters.RunID != "" {
		query += " AND run_id = ?"
		args = append(args, filters.RunID)
	}

	query += " ORDER BY id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var records []*secondary.SubmissionRecord
	for rows.Next() {
		var (
			rec       secondary.SubmissionRecord
			comment   sql.NullString
			errText   sql.NullString
			createdAt time.Time
		)
		err := rows.Scan(&rec.ID, &rec.RunID, &rec.Ticket, &rec.Day, &rec.Hours, &comment, &rec.Status, &errText, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		rec.Comment = comment.String
		rec.Error = errText.String
		rec.CreatedAt = createdAt.Format(time.RFC3339)
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	return records, nil
}
