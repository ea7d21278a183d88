// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/example/gapfill/internal/core/calendar"
	"github.com/example/gapfill/internal/ports/primary"
)

var (
	addMarker  = color.New(color.FgGreen).Sprint("+")
	warnMarker = color.New(color.FgYellow).Sprint("!")
	failMarker = color.New(color.FgRed).Sprint("✗")
)

// ReconcileAdapter is a thin adapter that translates CLI operations to ReconcileService calls.
type ReconcileAdapter struct {
	service primary.ReconcileService
	out     io.Writer
}

// NewReconcileAdapter creates a new ReconcileAdapter with the given service.
func NewReconcileAdapter(service primary.ReconcileService, out io.Writer) *ReconcileAdapter {
	return &ReconcileAdapter{
		service: service,
		out:     out,
	}
}

// Fill runs a reconciliation and prints its summary. The days settled
// before a fatal error are still printed.
func (a *ReconcileAdapter) Fill(ctx context.Context, req primary.ReconcileRequest) error {
	summary, err := a.service.Reconcile(ctx, req)
	if summary != nil {
		a.printSummary(summary)
	}
	return err
}

func (a *ReconcileAdapter) printSummary(s *primary.RunSummary) {
	mode := color.New(color.FgCyan).Sprint("Dry run")
	if s.Publish {
		mode = color.New(color.FgHiMagenta).Sprint("Publishing")
	}
	fmt.Fprintf(a.out, "\n%s %s → %s (run %s)\n", mode, formatDay(s.Today), formatDay(s.First), s.RunID)
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")

	for _, d := range s.Days {
		a.printDay(d)
	}

	if failed := s.FailedDays(); len(failed) > 0 {
		fmt.Fprintln(a.out, "\nFailed days:")
		for _, d := range failed {
			fmt.Fprintf(a.out, "  %s %s: %s\n", failMarker, formatDay(d.Day), d.Reason)
		}
	}

	var refused []primary.FailedAction
	for _, d := range s.Days {
		refused = append(refused, d.Failed...)
	}
	if len(refused) > 0 {
		fmt.Fprintln(a.out, "\nFailed submissions:")
		for _, f := range refused {
			fmt.Fprintf(a.out, "  %s %s %s %.2fh: %s\n", failMarker, f.Action.Ticket, formatDay(f.Action.Day), f.Action.Hours, f.Reason)
		}
	}

	fmt.Fprintf(a.out, "\nTotal: proposed %.2fh", s.ProposedHours())
	if s.Publish {
		fmt.Fprintf(a.out, ", submitted %.2fh, failed %.2fh", s.SubmittedHours(), s.FailedHours())
	}
	fmt.Fprintln(a.out)
}

func (a *ReconcileAdapter) printDay(d primary.DayOutcome) {
	header := fmt.Sprintf("%s %s", formatDay(d.Day), d.Day.Format("Mon"))
	switch {
	case d.Reason != "":
		fmt.Fprintf(a.out, "%s  %s\n", header, color.New(color.FgRed).Sprint("failed"))
		return
	case d.Vacation && len(d.Actions) == 0:
		fmt.Fprintf(a.out, "%s  %s\n", header, color.New(color.FgCyan).Sprint("vacation"))
		return
	case d.Expected == 0 && len(d.Actions) == 0:
		fmt.Fprintf(a.out, "%s  %s\n", header, color.New(color.FgHiBlack).Sprint("non-working day"))
		return
	}

	fmt.Fprintf(a.out, "%s  expected %.2fh  logged %.2fh\n", header, d.Expected, d.Logged)
	for _, act := range d.Actions {
		fmt.Fprintf(a.out, "  %s %-12s %6.2fh  %s\n", addMarker, act.Ticket, act.Hours, act.Comment)
	}
	for _, an := range d.Anomalies {
		if an.Ticket != "" {
			fmt.Fprintf(a.out, "  %s %s %s: %s\n", warnMarker, an.Kind, an.Ticket, an.Detail)
		} else {
			fmt.Fprintf(a.out, "  %s %s: %s\n", warnMarker, an.Kind, an.Detail)
		}
	}
}

func formatDay(t time.Time) string {
	return t.Format(calendar.DateLayout)
}
