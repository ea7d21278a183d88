// Package walk contains the pure state machine behind the backward walk over
// a month of working days.
// This is part of the Functional Core - no I/O, only pure functions.
package walk

import (
	"fmt"
	"time"

	"github.com/example/gapfill/internal/core/calendar"
)

// Phase represents the state of the day under the walk's pointer.
type Phase string

const (
	PhasePending   Phase = "pending"
	PhaseResolved  Phase = "resolved"
	PhaseFailed    Phase = "failed"
	PhaseDryRun    Phase = "dry_run"
	PhaseSubmitted Phase = "submitted"
	PhaseDone      Phase = "done"
)

// HintScope decides which days the operator's current-task hint applies to.
type HintScope string

const (
	// HintFirstDayOnly applies the hint to the most recent day of the walk only.
	HintFirstDayOnly HintScope = "first_day_only"
	// HintEveryDay applies the hint to every day of the walk.
	HintEveryDay HintScope = "every_day"
)

// ParseHintScope parses a hint scope name. Empty means HintFirstDayOnly.
func ParseHintScope(s string) (HintScope, error) {
	switch HintScope(s) {
	case "", HintFirstDayOnly:
		return HintFirstDayOnly, nil
	case HintEveryDay:
		return HintEveryDay, nil
	default:
		return "", fmt.Errorf("unknown hint scope %q (want %s or %s)", s, HintFirstDayOnly, HintEveryDay)
	}
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

var transitions = map[Phase][]Phase{
	PhasePending:  {PhaseResolved, PhaseFailed},
	PhaseResolved: {PhaseDryRun, PhaseSubmitted},
}

// CanTransition evaluates whether a day may move from one phase to another.
// Leaving failed, dry_run and submitted is done with Advance, not here.
func CanTransition(from, to Phase) GuardResult {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return GuardResult{Allowed: true}
		}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("cannot move a day from %s to %s", from, to),
	}
}

// CanAdvance evaluates whether the walk may move on from the current day.
// Rule: a day must be settled (failed, reported or submitted) first.
func CanAdvance(p Phase) GuardResult {
	switch p {
	case PhaseFailed, PhaseDryRun, PhaseSubmitted:
		return GuardResult{Allowed: true}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("cannot leave a day that is still %s", p),
	}
}

// RunState is the only mutable state of a reconciliation run. It is a value;
// every transition returns a new RunState.
type RunState struct {
	Today time.Time // reference day, the first day walked
	First time.Time // first of the month, the last day walked
	Day   time.Time // day under the pointer
	Index int       // number of days already walked
	Phase Phase

	Hint  string // operator-supplied current task
	Scope HintScope

	// Remaining is the unlogged budget of the day once resolved.
	Remaining float64
}

// Start returns the state for a walk from today back to the first of its month.
func Start(today time.Time, hint string, scope HintScope) RunState {
	today = calendar.DateOf(today)
	return RunState{
		Today: today,
		First: calendar.FirstOfMonth(today),
		Day:   today,
		Phase: PhasePending,
		Hint:  hint,
		Scope: scope,
	}
}

// HintForDay returns the hint that applies to the current day, or "".
func (s RunState) HintForDay() string {
	if s.Scope == HintEveryDay || s.Index == 0 {
		return s.Hint
	}
	return ""
}

// Transition moves the current day to phase to.
func (s RunState) Transition(to Phase) (RunState, error) {
	if err := CanTransition(s.Phase, to).Error(); err != nil {
		return s, fmt.Errorf("%s: %w", s.Day.Format(calendar.DateLayout), err)
	}
	s.Phase = to
	return s, nil
}

// Resolve records the day's remaining budget and marks it resolved.
func (s RunState) Resolve(remaining float64) (RunState, error) {
	next, err := s.Transition(PhaseResolved)
	if err != nil {
		return s, err
	}
	next.Remaining = remaining
	return next, nil
}

// Advance moves the pointer to the previous day, or to done once the first
// of the month has been settled.
func (s RunState) Advance() (RunState, error) {
	if err := CanAdvance(s.Phase).Error(); err != nil {
		return s, fmt.Errorf("%s: %w", s.Day.Format(calendar.DateLayout), err)
	}
	if !s.Day.After(s.First) {
		s.Phase = PhaseDone
		return s, nil
	}
	s.Day = s.Day.AddDate(0, 0, -1)
	s.Index++
	s.Phase = PhasePending
	s.Remaining = 0
	return s, nil
}

// Done reports whether the walk is finished.
func (s RunState) Done() bool {
	return s.Phase == PhaseDone
}
