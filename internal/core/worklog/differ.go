// Package worklog compares a day's allocation with the ledger and plans the
// worklog additions that close the gap.
// This is part of the Functional Core - no I/O, only pure functions.
package worklog

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/gapfill/internal/core/allocation"
	"github.com/example/gapfill/internal/models"
)

// Epsilon is the smallest gap, in hours, worth logging.
const Epsilon = 0.01

// maxCommentLen bounds generated worklog comments.
const maxCommentLen = 250

// DiffResult is the outcome of comparing one day.
type DiffResult struct {
	Day       time.Time
	Actions   []models.WorklogAction
	Anomalies []models.Anomaly

	Logged    float64 // hours already in the ledger for the day
	Remaining float64 // expected hours left unlogged after Actions
}

// Proposed returns the hours of all actions.
func (r DiffResult) Proposed() float64 {
	var total float64
	for _, a := range r.Actions {
		total += a.Hours
	}
	return total
}

// Diff produces the additions needed for the ledger to match alloc on day.
//
// For each ticket, gap = allocated - already logged, clamped at zero.
// Gaps are further clamped to the day's remaining budget (expected minus
// everything logged that day, on any ticket), so the day is never
// over-logged. Over-logged tickets are reported, never corrected.
// Actions follow the allocation's first-seen ticket order.
func Diff(day time.Time, alloc allocation.Allocation, logged []models.LoggedEntry, defaultComment string) DiffResult {
	result := DiffResult{Day: day}

	already := make(map[string]float64)
	for _, e := range logged {
		if !e.Day.IsZero() && !sameDay(e.Day, day) {
			continue
		}
		already[e.Ticket] += e.Hours
		result.Logged += e.Hours
	}

	budget := alloc.Expected - result.Logged
	if budget < 0 {
		budget = 0
	}

	if alloc.Unattributed && budget > Epsilon {
		result.Anomalies = append(result.Anomalies, models.Anomaly{
			Day:    day,
			Kind:   models.AnomalyUnattributed,
			Detail: unattributedDetail(alloc.Dropped, budget),
		})
	}

	for _, t := range alloc.Tickets {
		want := alloc.Hours[t]
		got := already[t]

		if got > want+Epsilon {
			result.Anomalies = append(result.Anomalies, models.Anomaly{
				Day:    day,
				Kind:   models.AnomalyOverLogged,
				Ticket: t,
				Detail: fmt.Sprintf("logged %.2fh, allocated %.2fh", got, want),
			})
			continue
		}

		gap := want - got
		if gap <= Epsilon {
			continue
		}
		if gap > budget {
			result.Anomalies = append(result.Anomalies, models.Anomaly{
				Day:    day,
				Kind:   models.AnomalyBudgetClamped,
				Ticket: t,
				Detail: fmt.Sprintf("gap %.2fh cut to %.2fh left for the day", gap, budget),
			})
			gap = budget
			if gap <= Epsilon {
				continue
			}
		}

		budget -= gap
		result.Actions = append(result.Actions, models.WorklogAction{
			Ticket:  t,
			Day:     day,
			Hours:   gap,
			Comment: Comment(alloc.Subjects[t], defaultComment),
		})
	}

	result.Remaining = budget
	return result
}

// Comment builds a worklog comment from commit subjects, falling back to
// fallback when there are none.
func Comment(subjects []string, fallback string) string {
	if len(subjects) == 0 {
		return fallback
	}
	c := strings.Join(subjects, "; ")
	if r := []rune(c); len(r) > maxCommentLen {
		c = string(r[:maxCommentLen-1]) + "…"
	}
	return c
}

func unattributedDetail(dropped int, open float64) string {
	if dropped == 0 {
		return fmt.Sprintf("no commits, %.2fh unlogged", open)
	}
	return fmt.Sprintf("%d commit(s) without a ticket, %.2fh unlogged", dropped, open)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
