// Package git implements the commit source port on top of the git CLI.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/example/gapfill/internal/config"
	"github.com/example/gapfill/internal/core/calendar"
	"github.com/example/gapfill/internal/models"
	"github.com/example/gapfill/internal/ports/secondary"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"

	logFormat = "--format=%H%x1f%cI%x1f%an <%ae>%x1f%B%x1e"

	// Explicit offsets keep git from reading the bounds as local time.
	gitInstant = "2006-01-02 15:04:05 -0700"

	// zonePad covers every UTC offset in use, so a commit whose
	// committer-local date is in range is always inside the queried window.
	zonePad = 14 * time.Hour
)

// LogReader reads commits with `git log`.
type LogReader struct {
	author string
	binary string
}

// NewLogReader creates a LogReader. A non-empty author is passed to
// git as --author.
func NewLogReader(author string) *LogReader {
	return &LogReader{author: author, binary: "git"}
}

var _ secondary.CommitSource = (*LogReader)(nil)

// ListCommits returns the commits of repo whose committer-local date lies
// between the dates of since and until, inclusive, ordered by timestamp
// ascending. The clock and zone of since and until are ignored, so the
// result does not depend on the machine's time zone.
func (r *LogReader) ListCommits(ctx context.Context, repo string, since, until time.Time) ([]models.Commit, error) {
	path, err := config.ExpandHome(repo)
	if err != nil {
		return nil, err
	}

	first, last := calendar.DateOf(since), calendar.DateOf(until)
	lo := first.Add(-zonePad)
	hi := last.Add(24*time.Hour - time.Second + zonePad)

	args := []string{
		"-C", path, "log",
		"--since=" + lo.Format(gitInstant),
		"--until=" + hi.Format(gitInstant),
		"--date-order", "--reverse",
		logFormat,
	}
	if r.author != "" {
		args = append(args, "--author="+r.author)
	}

	out, err := r.runGitCommandOutput(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("git log in %s: %w", repo, err)
	}

	commits, err := ParseLog(repo, out)
	if err != nil {
		return nil, err
	}
	kept := commits[:0]
	for _, c := range commits {
		if d := c.Day(); !d.Before(first) && !d.After(last) {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

// runGitCommandOutput executes a git command and returns the stdout.
func (r *LogReader) runGitCommandOutput(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// ParseLog parses the output of `git log` run with the record format used
// by ListCommits.
func ParseLog(repo, out string) ([]models.Commit, error) {
	var commits []models.Commit
	for _, rec := range strings.Split(out, recordSep) {
		rec = strings.TrimLeft(rec, "\r\n")
		if strings.TrimSpace(rec) == "" {
			continue
		}
		fields := strings.SplitN(rec, fieldSep, 4)
		if len(fields) != 4 {
			return nil, fmt.Errorf("unexpected git log record %q", abbreviate(rec))
		}
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("commit %s: bad date: %w", fields[0], err)
		}
		commits = append(commits, models.Commit{
			Hash:       strings.TrimSpace(fields[0]),
			Repository: repo,
			Author:     fields[2],
			Timestamp:  ts,
			Message:    strings.TrimSpace(fields[3]),
		})
	}
	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Timestamp.Before(commits[j].Timestamp)
	})
	return commits, nil
}

func abbreviate(s string) string {
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
