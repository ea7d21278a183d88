// Package timeparsing provides layered parsing for the reference day of a run.
//
// The layers are tried in order:
//  1. Absolute civil date (2026-10-12)
//  2. Compact duration (-1d, -2w)
//  3. Natural language (yesterday, last friday)
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/example/gapfill/internal/core/calendar"
)

// compactDurationRe matches compact duration patterns: [+-]?(\d+)([dwmy])
var compactDurationRe = regexp.MustCompile(`^([+-]?)(\d+)([dwmy])$`)

// dateShapeRe matches input that is meant as an absolute date.
var dateShapeRe = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)

// ParseDay parses a day expression relative to now and returns its civil
// date. An empty expression is now's date.
func ParseDay(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return calendar.DateOf(now), nil
	}

	day, err := calendar.ParseDate(s)
	if err == nil {
		return day, nil
	}
	if dateShapeRe.MatchString(s) {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}

	if t, err := ParseCompactDuration(s, now); err == nil {
		return calendar.DateOf(t), nil
	}

	t, err := ParseNaturalLanguage(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot read %q as a day (want YYYY-MM-DD, -1d or an expression like \"last friday\")", s)
	}
	return calendar.DateOf(t), nil
}

// ParseCompactDuration parses compact duration syntax and returns the resulting time.
//
// Units:
//   - d = days
//   - w = weeks
//   - m = months
//   - y = years
//
// No sign means positive.
func ParseCompactDuration(s string, now time.Time) (time.Time, error) {
	matches := compactDurationRe.FindStringSubmatch(s)
	if matches == nil {
		return time.Time{}, fmt.Errorf("not a compact duration: %q", s)
	}

	amount, err := strconv.Atoi(matches[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration amount: %q", matches[2])
	}
	if matches[1] == "-" {
		amount = -amount
	}

	switch matches[3] {
	case "d":
		return now.AddDate(0, 0, amount), nil
	case "w":
		return now.AddDate(0, 0, amount*7), nil
	case "m":
		return now.AddDate(0, amount, 0), nil
	default:
		return now.AddDate(amount, 0, 0), nil
	}
}

var parser = newParser()

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseNaturalLanguage parses an English date expression relative to now.
// The expression must make up the whole input.
func ParseNaturalLanguage(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	r, err := parser.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("no date found in %q", s)
	}
	if r.Index != 0 || len(r.Text) != len(s) {
		return time.Time{}, fmt.Errorf("unrecognized text in %q (matched only %q)", s, r.Text)
	}
	return r.Time, nil
}
