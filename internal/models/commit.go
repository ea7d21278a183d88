// Package models contains domain types shared by the core, the services and
// the adapters. They carry no behavior beyond simple derived values.
package models

import (
	"strings"
	"time"
)

// Commit is a single commit read from a tracked repository.
// Commits are owned by the commit source; gapfill only reads them.
type Commit struct {
	Hash       string
	Repository string
	Author     string
	Timestamp  time.Time // committer time, in the committer's zone
	Message    string    // full message, subject first
}

// Day returns the committer-local civil date of the commit at midnight UTC.
func (c Commit) Day() time.Time {
	ts := c.Timestamp
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

// Subject returns the first line of the commit message.
func (c Commit) Subject() string {
	subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return strings.TrimSpace(subject)
}
