package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/example/gapfill/internal/core/allocation"
	"github.com/example/gapfill/internal/core/calendar"
	"github.com/example/gapfill/internal/core/walk"
	"github.com/example/gapfill/internal/core/worklog"
	"github.com/example/gapfill/internal/ctxutil"
	"github.com/example/gapfill/internal/models"
	"github.com/example/gapfill/internal/ports/primary"
	"github.com/example/gapfill/internal/ports/secondary"
	"github.com/example/gapfill/internal/telemetry"
)

// ReconcileConfig holds the settings a reconciliation run needs from the
// configuration file, already parsed and validated.
type ReconcileConfig struct {
	Pattern        *regexp.Regexp
	Calendar       calendar.Calendar
	Repositories   []string
	HintScope      walk.HintScope
	DefaultComment string
	FetchWorkers   int
}

// ReconcileServiceImpl implements the ReconcileService interface.
type ReconcileServiceImpl struct {
	cfg         ReconcileConfig
	commits     secondary.CommitSource
	ledger      secondary.WorklogLedger
	journal     secondary.SubmissionJournal
	logger      *slog.Logger
	instruments *telemetry.Instruments
	tracer      trace.Tracer
}

// NewReconcileService creates a new ReconcileService with injected dependencies.
// journal and instruments may be nil.
func NewReconcileService(
	cfg ReconcileConfig,
	commits secondary.CommitSource,
	ledger secondary.WorklogLedger,
	journal secondary.SubmissionJournal,
	logger *slog.Logger,
	instruments *telemetry.Instruments,
) *ReconcileServiceImpl {
	return &ReconcileServiceImpl{
		cfg:         cfg,
		commits:     commits,
		ledger:      ledger,
		journal:     journal,
		logger:      logger,
		instruments: instruments,
		tracer:      telemetry.Tracer(),
	}
}

// dayData is what a day needs from the outside world.
type dayData struct {
	commits []models.Commit
	logged  []models.LoggedEntry
	err     error
}

// Reconcile walks from req.Today back to the first of its month.
//
// A day whose data cannot be read is marked failed and the walk goes on.
// Rejected credentials and context cancellation stop the run; the summary
// returned with the error holds the days settled so far.
func (s *ReconcileServiceImpl) Reconcile(ctx context.Context, req primary.ReconcileRequest) (*primary.RunSummary, error) {
	scope := s.cfg.HintScope
	if req.HintScope != "" {
		parsed, err := walk.ParseHintScope(req.HintScope)
		if err != nil {
			return nil, err
		}
		scope = parsed
	}

	runID := uuid.NewString()
	ctx = ctxutil.WithRunID(ctx, runID)

	state := walk.Start(req.Today, req.Hint, scope)
	summary := &primary.RunSummary{
		RunID:   runID,
		Today:   state.Today,
		First:   state.First,
		Publish: req.Publish,
	}

	var executor EffectExecutor = NewDryRunExecutor(s.journal, s.logger)
	if req.Publish {
		executor = NewPublishExecutor(s.ledger, s.journal, s.logger, s.instruments)
	}

	s.logger.Info("reconciliation started",
		"run", runID,
		"from", state.Today.Format(calendar.DateLayout),
		"to", state.First.Format(calendar.DateLayout),
		"publish", req.Publish,
		"hint_scope", string(scope))

	prefetched, err := s.prefetch(ctx, calendar.WalkBack(state.Today, state.First))
	if err != nil {
		return summary, err
	}

	for !state.Done() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		var data *dayData
		if prefetched != nil {
			data = prefetched[state.Day]
		}

		outcome, next, err := s.walkDay(ctx, state, data, executor)
		if outcome != nil {
			summary.Days = append(summary.Days, *outcome)
		}
		if err != nil {
			return summary, err
		}
		state = next
	}

	s.logger.Info("reconciliation finished",
		"run", runID,
		"days", len(summary.Days),
		"proposed_hours", summary.ProposedHours(),
		"submitted_hours", summary.SubmittedHours(),
		"failed_hours", summary.FailedHours())
	return summary, nil
}

// walkDay settles the day under the pointer and advances the walk.
func (s *ReconcileServiceImpl) walkDay(ctx context.Context, state walk.RunState, data *dayData, executor EffectExecutor) (*primary.DayOutcome, walk.RunState, error) {
	day := state.Day
	ctx, span := s.tracer.Start(ctx, "gapfill.day",
		trace.WithAttributes(attribute.String("day", day.Format(calendar.DateLayout))))
	defer span.End()

	expected := s.cfg.Calendar.ExpectedHours(day)
	outcome := &primary.DayOutcome{
		Day:      day,
		Expected: expected,
		Vacation: s.cfg.Calendar.IsVacation(day),
	}

	if s.cfg.Calendar.IsWorkingDay(day) && data == nil {
		data = s.fetchDay(ctx, day)
	}
	if data == nil {
		data = &dayData{}
	}

	if data.err != nil {
		if errors.Is(data.err, secondary.ErrUnauthorized) {
			span.SetStatus(codes.Error, data.err.Error())
			return nil, state, data.err
		}
		span.SetStatus(codes.Error, data.err.Error())
		s.logger.Warn("day failed", "day", day.Format(calendar.DateLayout), "error", data.err)

		next, err := state.Transition(walk.PhaseFailed)
		if err != nil {
			return nil, state, err
		}
		outcome.Phase = string(next.Phase)
		outcome.Reason = data.err.Error()
		s.instruments.DayWalked(ctx, outcome.Phase)
		next, err = next.Advance()
		return outcome, next, err
	}

	plan := worklog.GenerateDayPlan(worklog.DayPlanInput{
		Day:            day,
		Pattern:        s.cfg.Pattern,
		Commits:        data.commits,
		ExpectedHours:  expected,
		Hint:           state.HintForDay(),
		Logged:         data.logged,
		DefaultComment: s.cfg.DefaultComment,
	})

	next, err := state.Resolve(plan.Diff.Remaining)
	if err != nil {
		return nil, state, err
	}
	outcome.Logged = plan.Diff.Logged
	outcome.Remaining = next.Remaining
	outcome.Actions = plan.Diff.Actions
	s.instruments.ActionsProposed(ctx, len(plan.Diff.Actions))

	result, execErr := executor.Execute(ctx, plan.Effects())
	if result != nil {
		outcome.Submitted = result.Submitted
		outcome.Failed = result.Failed
		outcome.Anomalies = result.Warnings
	}
	if execErr != nil {
		span.SetStatus(codes.Error, execErr.Error())
		return outcome, state, execErr
	}

	if next, err = next.Transition(executor.Phase()); err != nil {
		return nil, state, err
	}
	outcome.Phase = string(next.Phase)
	span.SetAttributes(
		attribute.String("phase", outcome.Phase),
		attribute.Int("actions", len(outcome.Actions)),
	)
	s.instruments.DayWalked(ctx, outcome.Phase)

	s.logger.Debug("day settled",
		"day", day.Format(calendar.DateLayout),
		"expected", expected,
		"logged", outcome.Logged,
		"actions", len(outcome.Actions))

	next, err = next.Advance()
	return outcome, next, err
}

// fetchDay reads one day's commits from every repository and the day's
// ledger entries.
func (s *ReconcileServiceImpl) fetchDay(ctx context.Context, day time.Time) *dayData {
	until := day.Add(24*time.Hour - time.Second)

	var all []models.Commit
	for _, repo := range s.cfg.Repositories {
		commits, err := s.commits.ListCommits(ctx, repo, day, until)
		if err != nil {
			return &dayData{err: fmt.Errorf("read commits: %w", err)}
		}
		all = append(all, commits...)
	}

	logged, err := s.ledger.GetWorklogs(ctx, day)
	if err != nil {
		return &dayData{err: fmt.Errorf("read worklogs: %w", err)}
	}

	return &dayData{
		commits: allocation.GroupByDay(all)[day],
		logged:  logged,
	}
}

// prefetch reads working days concurrently when more than one fetch worker
// is configured. It returns nil when days are to be read during the walk.
// Rejected credentials cancel the remaining reads.
func (s *ReconcileServiceImpl) prefetch(ctx context.Context, days []time.Time) (map[time.Time]*dayData, error) {
	if s.cfg.FetchWorkers <= 1 {
		return nil, nil
	}

	results := make([]*dayData, len(days))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FetchWorkers)

	for i, day := range days {
		if !s.cfg.Calendar.IsWorkingDay(day) {
			continue
		}
		g.Go(func() error {
			data := s.fetchDay(gctx, day)
			if errors.Is(data.err, secondary.ErrUnauthorized) {
				return data.err
			}
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]*dayData, len(days))
	for i, day := range days {
		if results[i] != nil {
			byDay[day] = results[i]
		}
	}
	return byDay, nil
}
