// Package allocation distributes a day's expected hours across the tickets
// touched by that day's commits.
// This is part of the Functional Core - no I/O, only pure functions.
package allocation

import (
	"regexp"
	"sort"
	"time"

	"github.com/example/gapfill/internal/core/ticket"
	"github.com/example/gapfill/internal/models"
)

// Allocation maps tickets to hours for one day.
// Tickets keeps first-seen order so output is reproducible.
type Allocation struct {
	Expected float64
	Tickets  []string
	Hours    map[string]float64
	Subjects map[string][]string // distinct commit subjects per ticket, in commit order

	// Unattributed is set for a working day on which no commit resolved
	// to a ticket.
	Unattributed bool
	// Dropped counts commits that resolved to no ticket.
	Dropped int
}

// Total returns the sum of allocated hours.
func (a Allocation) Total() float64 {
	var total float64
	for _, t := range a.Tickets {
		total += a.Hours[t]
	}
	return total
}

// Empty reports whether nothing was allocated.
func (a Allocation) Empty() bool {
	return len(a.Tickets) == 0
}

// Allocate splits expectedHours evenly across the distinct tickets of the
// day's commits. Each commit resolves to its first pattern match, else to
// hint; commits resolving to nothing are dropped. The number of commits per
// ticket does not change its share.
//
// A day with no expected hours always yields an empty allocation.
func Allocate(pattern *regexp.Regexp, commits []models.Commit, expectedHours float64, hint string) Allocation {
	alloc := Allocation{
		Expected: expectedHours,
		Hours:    make(map[string]float64),
		Subjects: make(map[string][]string),
	}
	if expectedHours <= 0 {
		alloc.Expected = 0
		return alloc
	}

	seenSubject := make(map[string]map[string]bool)
	for _, c := range commits {
		ref, ok := ticket.Resolve(pattern, c.Message, hint)
		if !ok {
			alloc.Dropped++
			continue
		}
		if _, known := alloc.Hours[ref]; !known {
			alloc.Tickets = append(alloc.Tickets, ref)
			alloc.Hours[ref] = 0
			seenSubject[ref] = make(map[string]bool)
		}
		if s := c.Subject(); s != "" && !seenSubject[ref][s] {
			seenSubject[ref][s] = true
			alloc.Subjects[ref] = append(alloc.Subjects[ref], s)
		}
	}

	if len(alloc.Tickets) == 0 {
		alloc.Unattributed = true
		return alloc
	}

	share := expectedHours / float64(len(alloc.Tickets))
	for _, t := range alloc.Tickets {
		alloc.Hours[t] = share
	}
	return alloc
}

// GroupByDay buckets commits by their committer-local civil date.
// Within a day commits are ordered by timestamp, ties keeping input order.
func GroupByDay(commits []models.Commit) map[time.Time][]models.Commit {
	byDay := make(map[time.Time][]models.Commit)
	for _, c := range commits {
		d := c.Day()
		byDay[d] = append(byDay[d], c)
	}
	for d := range byDay {
		day := byDay[d]
		sort.SliceStable(day, func(i, j int) bool {
			return day[i].Timestamp.Before(day[j].Timestamp)
		})
	}
	return byDay
}
