package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"

	"github.com/example/gapfill/internal/ports/primary"
	"github.com/example/gapfill/internal/ports/secondary"
)

// ReportAdapter is a thin adapter that translates CLI operations to ReportService calls.
type ReportAdapter struct {
	service primary.ReportService
	out     io.Writer
}

// NewReportAdapter creates a new ReportAdapter with the given service.
func NewReportAdapter(service primary.ReportService, out io.Writer) *ReportAdapter {
	return &ReportAdapter{
		service: service,
		out:     out,
	}
}

// Month prints logged hours per day and per ticket for today's month.
// user selects another Jira user; empty reports the current one.
func (a *ReportAdapter) Month(ctx context.Context, today time.Time, user string) error {
	report, err := a.service.MonthReport(ctx, primary.ReportRequest{Today: today, User: user})
	if err != nil {
		return err
	}

	if report.User != "" {
		fmt.Fprintf(a.out, "\nWorklogs of %s\n", color.New(color.Bold).Sprint(report.User))
	}

	fmt.Fprintf(a.out, "\n%-12s %-4s %9s %9s %9s\n", "DAY", "", "EXPECTED", "LOGGED", "MISSING")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, d := range report.Days {
		missing := fmt.Sprintf("%9.2f", d.Missing())
		if d.Missing() > 0 {
			missing = color.New(color.FgYellow).Sprint(missing)
		}
		fmt.Fprintf(a.out, "%-12s %-4s %9.2f %9.2f %s\n", formatDay(d.Day), d.Day.Format("Mon"), d.Expected, d.Logged, missing)
	}

	if len(report.Tickets) > 0 {
		fmt.Fprintln(a.out, "\nPer ticket:")
		tickets := make([]string, 0, len(report.Tickets))
		for t := range report.Tickets {
			tickets = append(tickets, t)
		}
		sort.Strings(tickets)
		for _, t := range tickets {
			fmt.Fprintf(a.out, "  %-12s %6.2fh\n", t, report.Tickets[t])
		}
	}

	fmt.Fprintf(a.out, "\nTotal: logged %.2fh of %.2fh expected\n", report.TotalLogged(), report.TotalExpected())
	return nil
}

// Journal lists recorded submission attempts.
func (a *ReportAdapter) Journal(ctx context.Context, runID string, limit int) error {
	records, err := a.service.ListSubmissions(ctx, secondary.SubmissionFilters{RunID: runID, Limit: limit})
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(a.out, "No submissions found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-20s %-10s %-12s %-12s %7s %s\n", "WHEN", "STATUS", "DAY", "TICKET", "HOURS", "RUN")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, r := range records {
		var status string
		switch r.Status {
		case secondary.SubmissionSubmitted:
			status = color.New(color.FgGreen).Sprintf("%-10s", r.Status)
		case secondary.SubmissionFailed:
			status = color.New(color.FgRed).Sprintf("%-10s", r.Status)
		default:
			status = fmt.Sprintf("%-10s", r.Status)
		}
		fmt.Fprintf(a.out, "%-20s %s %-12s %-12s %7.2f %s\n", r.CreatedAt, status, r.Day, r.Ticket, r.Hours, r.RunID)
		if r.Error != "" {
			fmt.Fprintf(a.out, "  %s %s\n", failMarker, r.Error)
		}
	}
	fmt.Fprintln(a.out)
	return nil
}
