package worklog

import (
	"regexp"
	"time"

	"github.com/example/gapfill/internal/core/allocation"
	"github.com/example/gapfill/internal/core/effects"
	"github.com/example/gapfill/internal/models"
)

// DayPlanInput contains the inputs needed to plan one day.
// All values are pre-fetched by the caller - no I/O in the planner.
type DayPlanInput struct {
	Day            time.Time
	Pattern        *regexp.Regexp
	Commits        []models.Commit
	ExpectedHours  float64
	Hint           string
	Logged         []models.LoggedEntry
	DefaultComment string
}

// DayPlan represents the planned effects for one day.
type DayPlan struct {
	Day        time.Time
	Allocation allocation.Allocation
	Diff       DiffResult
	WorklogOps []effects.WorklogEffect
	Warnings   []effects.WarningEffect
}

// Effects returns all effects as a flat slice for execution.
// Warnings come first so they are reported even if a submission fails.
func (p DayPlan) Effects() []effects.Effect {
	if len(p.WorklogOps) == 0 && len(p.Warnings) == 0 {
		return []effects.Effect{effects.NoEffect{Day: p.Day}}
	}
	result := make([]effects.Effect, 0, len(p.WorklogOps)+len(p.Warnings))
	for _, e := range p.Warnings {
		result = append(result, e)
	}
	for _, e := range p.WorklogOps {
		result = append(result, e)
	}
	return result
}

// GenerateDayPlan allocates the day's commits and diffs the allocation
// against the ledger. This is a pure function - all input data must be
// pre-fetched.
func GenerateDayPlan(input DayPlanInput) DayPlan {
	alloc := allocation.Allocate(input.Pattern, input.Commits, input.ExpectedHours, input.Hint)
	diff := Diff(input.Day, alloc, input.Logged, input.DefaultComment)

	plan := DayPlan{
		Day:        input.Day,
		Allocation: alloc,
		Diff:       diff,
	}
	for _, a := range diff.Anomalies {
		plan.Warnings = append(plan.Warnings, effects.WarningEffect{Anomaly: a})
	}
	for _, a := range diff.Actions {
		plan.WorklogOps = append(plan.WorklogOps, effects.WorklogEffect{Action: a})
	}
	return plan
}
