package jira

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/example/gapfill/internal/core/calendar"
	"github.com/example/gapfill/internal/models"
	"github.com/example/gapfill/internal/ports/secondary"
)

// startedLayout is the timestamp format Jira expects for worklog start times.
const startedLayout = "2006-01-02T15:04:05.000-0700"

// workdayStartHour is the local hour new worklogs are started at.
const workdayStartHour = 9

// Ledger adapts a Client to the WorklogLedger port.
type Ledger struct {
	client *Client
}

// NewLedger creates a Ledger.
func NewLedger(client *Client) *Ledger {
	return &Ledger{client: client}
}

var _ secondary.WorklogLedger = (*Ledger)(nil)

// GetWorklogs returns the current user's entries logged on day.
func (l *Ledger) GetWorklogs(ctx context.Context, day time.Time) ([]models.LoggedEntry, error) {
	return l.GetWorklogsRange(ctx, day, day)
}

// GetWorklogsRange returns the current user's entries logged in [first, last].
func (l *Ledger) GetWorklogsRange(ctx context.Context, first, last time.Time) ([]models.LoggedEntry, error) {
	return l.GetUserWorklogsRange(ctx, "", first, last)
}

// GetUserWorklogsRange returns user's entries logged in [first, last]. user
// is an account id or an email address; empty means the current user.
func (l *Ledger) GetUserWorklogsRange(ctx context.Context, user string, first, last time.Time) ([]models.LoggedEntry, error) {
	author := strconv.Quote(user)
	owns := func(u User) bool { return strings.EqualFold(u.AccountID, user) || strings.EqualFold(u.EmailAddress, user) }
	if user == "" {
		me, err := l.client.Myself(ctx)
		if err != nil {
			return nil, err
		}
		author = `currentUser()`
		owns = func(u User) bool { return u.AccountID == me.AccountID }
	}

	first, last = calendar.DateOf(first), calendar.DateOf(last)
	issues, err := l.client.SearchIssues(ctx, worklogJQL(author, first, last))
	if err != nil {
		return nil, err
	}

	var entries []models.LoggedEntry
	for _, issue := range issues {
		logs, err := l.client.IssueWorklogs(ctx, issue.Key)
		if err != nil {
			return nil, err
		}
		for _, w := range logs {
			if !owns(w.Author) {
				continue
			}
			day, err := startedDay(w.Started)
			if err != nil {
				return nil, fmt.Errorf("worklog %s of %s: %w", w.ID, issue.Key, err)
			}
			if day.Before(first) || day.After(last) {
				continue
			}
			entries = append(entries, models.LoggedEntry{
				ID:      w.ID,
				Ticket:  issue.Key,
				Day:     day,
				Hours:   float64(w.TimeSpentSeconds) / 3600,
				Comment: ADFToPlainText(w.Comment),
				Author:  w.Author.DisplayName,
			})
		}
	}
	return entries, nil
}

// PostWorklog adds a worklog started at 09:00 local time on day.
func (l *Ledger) PostWorklog(ctx context.Context, ticket string, day time.Time, hours float64, comment string) error {
	loc := l.client.Location
	if loc == nil {
		loc = time.Local
	}
	started := time.Date(day.Year(), day.Month(), day.Day(), workdayStartHour, 0, 0, 0, loc)
	seconds := int(math.Round(hours * 3600))
	if seconds <= 0 {
		return fmt.Errorf("refusing to log %.4fh on %s", hours, ticket)
	}
	return l.client.AddWorklog(ctx, ticket, started, seconds, comment)
}

func worklogJQL(author string, first, last time.Time) string {
	if first.Equal(last) {
		return fmt.Sprintf(`worklogAuthor = %s AND worklogDate = "%s"`, author, first.Format(calendar.DateLayout))
	}
	return fmt.Sprintf(`worklogAuthor = %s AND worklogDate >= "%s" AND worklogDate <= "%s"`,
		author, first.Format(calendar.DateLayout), last.Format(calendar.DateLayout))
}

// startedDay reads the civil date of a worklog's started timestamp.
func startedDay(started string) (time.Time, error) {
	if len(started) < len(calendar.DateLayout) {
		return time.Time{}, fmt.Errorf("%w: started %q", secondary.ErrMalformedResponse, started)
	}
	day, err := calendar.ParseDate(started[:len(calendar.DateLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: started %q", secondary.ErrMalformedResponse, started)
	}
	return day, nil
}
