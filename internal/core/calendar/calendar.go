// Package calendar contains the pure business logic for working-day hours.
// This is part of the Functional Core - no I/O, only pure functions.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the civil date format used for days everywhere in gapfill.
const DateLayout = "2006-01-02"

// Schedule holds the expected hours for each weekday, indexed by time.Weekday.
type Schedule [7]float64

// DefaultSchedule returns the Monday to Friday, eight hours per day schedule.
func DefaultSchedule() Schedule {
	var s Schedule
	for d := time.Monday; d <= time.Friday; d++ {
		s[d] = 8
	}
	return s
}

// Calendar computes expected working hours under a weekly schedule and a
// set of vacation days. A Calendar is immutable once built.
type Calendar struct {
	schedule  Schedule
	vacations map[time.Time]struct{}
}

// New creates a Calendar. Vacation days are normalized with DateOf.
func New(schedule Schedule, vacations []time.Time) Calendar {
	set := make(map[time.Time]struct{}, len(vacations))
	for _, v := range vacations {
		set[DateOf(v)] = struct{}{}
	}
	return Calendar{schedule: schedule, vacations: set}
}

// ExpectedHours returns the hours expected to be logged on day.
// Vacation days and weekdays absent from the schedule yield 0.
func (c Calendar) ExpectedHours(day time.Time) float64 {
	day = DateOf(day)
	if _, off := c.vacations[day]; off {
		return 0
	}
	return c.schedule[day.Weekday()]
}

// IsWorkingDay reports whether any hours are expected on day.
func (c Calendar) IsWorkingDay(day time.Time) bool {
	return c.ExpectedHours(day) > 0
}

// IsVacation reports whether day is an explicit vacation day.
func (c Calendar) IsVacation(day time.Time) bool {
	_, ok := c.vacations[DateOf(day)]
	return ok
}

// DateOf drops the clock and location of t, keeping its civil date.
// The result is midnight UTC so that days compare with ==.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FirstOfMonth returns the first day of day's month.
func FirstOfMonth(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// WalkBack returns every day from `from` down to `to`, both inclusive,
// most recent first. Returns nil when to is after from.
func WalkBack(from, to time.Time) []time.Time {
	from, to = DateOf(from), DateOf(to)
	var days []time.Time
	for d := from; !d.Before(to); d = d.AddDate(0, 0, -1) {
		days = append(days, d)
	}
	return days
}

// ParseVacations parses vacation items. Each item is either a single
// YYYY-MM-DD date or an inclusive YYYY-MM-DD..YYYY-MM-DD range.
// The result is sorted and free of duplicates.
func ParseVacations(items []string) ([]time.Time, error) {
	seen := make(map[time.Time]struct{})
	for _, item := range items {
		left, right, isRange := strings.Cut(item, "..")
		first, err := ParseDate(left)
		if err != nil {
			return nil, fmt.Errorf("vacation %q: %w", item, err)
		}
		last := first
		if isRange {
			last, err = ParseDate(right)
			if err != nil {
				return nil, fmt.Errorf("vacation %q: %w", item, err)
			}
			if last.Before(first) {
				return nil, fmt.Errorf("vacation %q: range ends before it starts", item)
			}
		}
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			seen[d] = struct{}{}
		}
	}

	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseSchedule builds a Schedule from weekday names to hours.
// Weekdays not present in the table are 0.
func ParseSchedule(table map[string]float64) (Schedule, error) {
	var s Schedule
	seen := make(map[time.Weekday]string)
	for name, hours := range table {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return Schedule{}, fmt.Errorf("schedule: unknown weekday %q", name)
		}
		if prev, dup := seen[wd]; dup {
			return Schedule{}, fmt.Errorf("schedule: %q and %q name the same weekday", prev, name)
		}
		if hours < 0 || hours > 24 {
			return Schedule{}, fmt.Errorf("schedule: %s has %.2f hours, want 0..24", name, hours)
		}
		seen[wd] = name
		s[wd] = hours
	}
	return s, nil
}
