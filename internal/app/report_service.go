package app

import (
	"context"
	"fmt"

	"github.com/example/gapfill/internal/core/calendar"
	"github.com/example/gapfill/internal/ports/primary"
	"github.com/example/gapfill/internal/ports/secondary"
)

// ReportServiceImpl implements the ReportService interface.
type ReportServiceImpl struct {
	cal     calendar.Calendar
	ledger  secondary.WorklogLedger
	journal secondary.SubmissionJournal
}

// NewReportService creates a new ReportService with injected dependencies.
// journal may be nil when no journal is configured.
func NewReportService(cal calendar.Calendar, ledger secondary.WorklogLedger, journal secondary.SubmissionJournal) *ReportServiceImpl {
	return &ReportServiceImpl{cal: cal, ledger: ledger, journal: journal}
}

// MonthReport summarizes logged hours from the first of the month up to req.Today.
func (s *ReportServiceImpl) MonthReport(ctx context.Context, req primary.ReportRequest) (*primary.MonthReport, error) {
	today := calendar.DateOf(req.Today)
	first := calendar.FirstOfMonth(today)

	entries, err := s.ledger.GetUserWorklogsRange(ctx, req.User, first, today)
	if err != nil {
		return nil, fmt.Errorf("failed to read worklogs: %w", err)
	}

	report := &primary.MonthReport{
		User:    req.User,
		First:   first,
		Today:   today,
		Tickets: make(map[string]float64),
	}

	index := make(map[int]int)
	days := calendar.WalkBack(today, first)
	for i := len(days) - 1; i >= 0; i-- {
		day := days[i]
		index[day.Day()] = len(report.Days)
		report.Days = append(report.Days, primary.ReportDay{
			Day:      day,
			Expected: s.cal.ExpectedHours(day),
			Tickets:  make(map[string]float64),
		})
	}

	for _, e := range entries {
		d := calendar.DateOf(e.Day)
		i, ok := index[d.Day()]
		if !ok || !report.Days[i].Day.Equal(d) {
			continue
		}
		report.Days[i].Logged += e.Hours
		report.Days[i].Tickets[e.Ticket] += e.Hours
		report.Tickets[e.Ticket] += e.Hours
	}

	return report, nil
}

// ListSubmissions lists recorded submission attempts.
func (s *ReportServiceImpl) ListSubmissions(ctx context.Context, filters secondary.SubmissionFilters) ([]*secondary.SubmissionRecord, error) {
	if s.journal == nil {
		return nil, fmt.Errorf("no journal configured (set journal in the config file)")
	}
	records, err := s.journal.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return records, nil
}
