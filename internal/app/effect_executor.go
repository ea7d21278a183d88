// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/gapfill/internal/core/calendar"
	"github.com/example/gapfill/internal/core/effects"
	"github.com/example/gapfill/internal/core/walk"
	"github.com/example/gapfill/internal/models"
	"github.com/example/gapfill/internal/ports/primary"
	"github.com/example/gapfill/internal/ports/secondary"
	"github.com/example/gapfill/internal/telemetry"
)

// EffectExecutor interprets and executes the effects of one day.
// This is the "Imperative Shell" - the only place worklogs are written.
type EffectExecutor interface {
	// Execute runs effs in order. It returns an error only when the run
	// must stop; refused submissions are reported in the result.
	Execute(ctx context.Context, effs []effects.Effect) (*ExecutionResult, error)

	// Phase is the phase a day reaches once its effects are executed.
	Phase() walk.Phase
}

// ExecutionResult is what happened to one day's effects.
type ExecutionResult struct {
	Submitted []models.WorklogAction
	Failed    []primary.FailedAction
	Warnings  []models.Anomaly
}

// DryRunExecutor reports effects without touching the ledger.
type DryRunExecutor struct {
	journal secondary.SubmissionJournal
	logger  *slog.Logger
}

// NewDryRunExecutor creates a DryRunExecutor. journal may be nil.
func NewDryRunExecutor(journal secondary.SubmissionJournal, logger *slog.Logger) *DryRunExecutor {
	return &DryRunExecutor{journal: journal, logger: logger}
}

// Phase returns walk.PhaseDryRun.
func (e *DryRunExecutor) Phase() walk.Phase { return walk.PhaseDryRun }

// Execute logs each effect and records proposed actions in the journal.
func (e *DryRunExecutor) Execute(ctx context.Context, effs []effects.Effect) (*ExecutionResult, error) {
	result := &ExecutionResult{}
	for _, eff := range effs {
		switch typed := eff.(type) {
		case effects.WorklogEffect:
			a := typed.Action
			e.logger.Debug("proposed worklog", "ticket", a.Ticket, "day", a.Day.Format(calendar.DateLayout), "hours", a.Hours)
			record(ctx, e.journal, e.logger, a, secondary.SubmissionDryRun, nil)
		case effects.WarningEffect:
			warn(e.logger, typed.Anomaly)
			result.Warnings = append(result.Warnings, typed.Anomaly)
		case effects.NoEffect:
		default:
			return result, fmt.Errorf("unknown effect type: %T", eff)
		}
	}
	return result, nil
}

// PublishExecutor submits worklog effects to the ledger one at a time.
type PublishExecutor struct {
	ledger      secondary.WorklogLedger
	journal     secondary.SubmissionJournal
	logger      *slog.Logger
	instruments *telemetry.Instruments
}

// NewPublishExecutor creates a PublishExecutor. journal and instruments may be nil.
func NewPublishExecutor(
	ledger secondary.WorklogLedger,
	journal secondary.SubmissionJournal,
	logger *slog.Logger,
	instruments *telemetry.Instruments,
) *PublishExecutor {
	return &PublishExecutor{
		ledger:      ledger,
		journal:     journal,
		logger:      logger,
		instruments: instruments,
	}
}

// Phase returns walk.PhaseSubmitted.
func (e *PublishExecutor) Phase() walk.Phase { return walk.PhaseSubmitted }

// Execute submits every worklog effect in order. A refused submission is
// recorded and the remaining effects still run; rejected credentials stop
// the run.
func (e *PublishExecutor) Execute(ctx context.Context, effs []effects.Effect) (*ExecutionResult, error) {
	result := &ExecutionResult{}
	for _, eff := range effs {
		switch typed := eff.(type) {
		case effects.WorklogEffect:
			a := typed.Action
			err := e.ledger.PostWorklog(ctx, a.Ticket, a.Day, a.Hours, a.Comment)
			record(ctx, e.journal, e.logger, a, statusOf(err), err)
			if err != nil {
				if errors.Is(err, secondary.ErrUnauthorized) {
					return result, fmt.Errorf("submit %s on %s: %w", a.Ticket, a.Day.Format(calendar.DateLayout), err)
				}
				e.logger.Warn("worklog submission failed",
					"ticket", a.Ticket, "day", a.Day.Format(calendar.DateLayout), "error", err)
				e.instruments.ActionFailed(ctx)
				result.Failed = append(result.Failed, primary.FailedAction{Action: a, Reason: err.Error()})
				continue
			}
			e.logger.Info("worklog submitted", "ticket", a.Ticket, "day", a.Day.Format(calendar.DateLayout), "hours", a.Hours)
			e.instruments.ActionSubmitted(ctx)
			result.Submitted = append(result.Submitted, a)
		case effects.WarningEffect:
			warn(e.logger, typed.Anomaly)
			result.Warnings = append(result.Warnings, typed.Anomaly)
		case effects.NoEffect:
		default:
			return result, fmt.Errorf("unknown effect type: %T", eff)
		}
	}
	return result, nil
}

func statusOf(err error) string {
	if err != nil {
		return secondary.SubmissionFailed
	}
	return secondary.SubmissionSubmitted
}

// record writes an attempt to the journal. Journal failures are logged and
// never stop a run.
func record(ctx context.Context, journal secondary.SubmissionJournal, logger *slog.Logger, a models.WorklogAction, status string, cause error) {
	if journal == nil {
		return
	}
	rec := &secondary.SubmissionRecord{
		Ticket:  a.Ticket,
		Day:     a.Day.Format(calendar.DateLayout),
		Hours:   a.Hours,
		Comment: a.Comment,
		Status:  status,
	}
	if cause != nil {
		rec.Error = cause.Error()
	}
	if err := journal.Record(ctx, rec); err != nil {
		logger.Warn("failed to journal submission", "ticket", a.Ticket, "error", err)
	}
}

func warn(logger *slog.Logger, a models.Anomaly) {
	logger.Warn("attribution anomaly",
		"day", a.Day.Format(calendar.DateLayout), "kind", string(a.Kind), "ticket", a.Ticket, "detail", a.Detail)
}
