package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instruments are the counters recorded by a reconciliation run.
// A nil *Instruments records nothing.
type Instruments struct {
	days      metric.Int64Counter
	proposed  metric.Int64Counter
	submitted metric.Int64Counter
	failed    metric.Int64Counter
}

// NewInstruments creates the run counters on meter.
func NewInstruments(meter metric.Meter) (*Instruments, error) {
	days, err := meter.Int64Counter("gapfill.days",
		metric.WithDescription("Days walked, by final phase"))
	if err != nil {
		return nil, err
	}
	proposed, err := meter.Int64Counter("gapfill.actions.proposed",
		metric.WithDescription("Worklog actions proposed"))
	if err != nil {
		return nil, err
	}
	submitted, err := meter.Int64Counter("gapfill.actions.submitted",
		metric.WithDescription("Worklog actions accepted by the ledger"))
	if err != nil {
		return nil, err
	}
	failed, err := meter.Int64Counter("gapfill.actions.failed",
		metric.WithDescription("Worklog actions refused by the ledger"))
	if err != nil {
		return nil, err
	}
	return &Instruments{days: days, proposed: proposed, submitted: submitted, failed: failed}, nil
}

// DayWalked counts one day settled in phase.
func (i *Instruments) DayWalked(ctx context.Context, phase string) {
	if i == nil {
		return
	}
	i.days.Add(ctx, 1, metric.WithAttributes(attribute.String("phase", phase)))
}

// ActionsProposed counts n proposed actions.
func (i *Instruments) ActionsProposed(ctx context.Context, n int) {
	if i == nil {
		return
	}
	i.proposed.Add(ctx, int64(n))
}

// ActionSubmitted counts one accepted action.
func (i *Instruments) ActionSubmitted(ctx context.Context) {
	if i == nil {
		return
	}
	i.submitted.Add(ctx, 1)
}

// ActionFailed counts one refused action.
func (i *Instruments) ActionFailed(ctx context.Context) {
	if i == nil {
		return
	}
	i.failed.Add(ctx, 1)
}
