package app

import (
	"context"
	"testing"

	"github.com/example/gapfill/internal/core/calendar"
	"github.com/example/gapfill/internal/models"
	"github.com/example/gapfill/internal/ports/primary"
	"github.com/example/gapfill/internal/ports/secondary"
)

func TestReportService_MonthReport(t *testing.T) {
	ledger := newMockLedger()
	ledger.logged[oct1] = []models.LoggedEntry{
		{Ticket: "PROJ-1", Day: oct1, Hours: 5},
		{Ticket: "PROJ-2", Day: oct1, Hours: 3},
	}
	ledger.logged[oct2] = []models.LoggedEntry{{Ticket: "PROJ-1", Day: oct2, Hours: 2}}

	service := NewReportService(calendar.New(calendar.DefaultSchedule(), nil), ledger, nil)

	report, err := service.MonthReport(context.Background(), primary.ReportRequest{Today: oct5})
	if err != nil {
		t.Fatalf("MonthReport failed: %v", err)
	}

	if len(report.Days) != 5 {
		t.Fatalf("days = %d, want 5", len(report.Days))
	}
	if !report.Days[0].Day.Equal(oct1) {
		t.Errorf("first day = %v, want oldest first", report.Days[0].Day)
	}
	if report.Days[0].Logged != 8 || report.Days[0].Missing() != 0 {
		t.Errorf("Oct 1: logged %.1f missing %.1f, want 8 and 0", report.Days[0].Logged, report.Days[0].Missing())
	}
	if report.Days[1].Missing() != 6 {
		t.Errorf("Oct 2 missing = %.1f, want 6", report.Days[1].Missing())
	}
	if report.Tickets["PROJ-1"] != 7 {
		t.Errorf("PROJ-1 total = %.1f, want 7", report.Tickets["PROJ-1"])
	}
	if report.TotalExpected() != 24 || report.TotalLogged() != 10 {
		t.Errorf("totals = %.1f expected, %.1f logged; want 24 and 10", report.TotalExpected(), report.TotalLogged())
	}
}

func TestReportService_MonthReportForUser(t *testing.T) {
	ledger := newMockLedger()
	service := NewReportService(calendar.New(calendar.DefaultSchedule(), nil), ledger, nil)

	report, err := service.MonthReport(context.Background(), primary.ReportRequest{Today: oct5, User: "ana@example.com"})
	if err != nil {
		t.Fatalf("MonthReport failed: %v", err)
	}
	if report.User != "ana@example.com" {
		t.Errorf("report user = %q, want ana@example.com", report.User)
	}
	if len(ledger.users) != 1 || ledger.users[0] != "ana@example.com" {
		t.Errorf("ledger read for %v, want [ana@example.com]", ledger.users)
	}

	if _, err := service.MonthReport(context.Background(), primary.ReportRequest{Today: oct5}); err != nil {
		t.Fatalf("MonthReport failed: %v", err)
	}
	if ledger.users[1] != "" {
		t.Errorf("default user = %q, want current user", ledger.users[1])
	}
}

func TestReportService_ListSubmissions(t *testing.T) {
	ledger := newMockLedger()
	cal := calendar.New(calendar.DefaultSchedule(), nil)

	if _, err := NewReportService(cal, ledger, nil).ListSubmissions(context.Background(), secondary.SubmissionFilters{}); err == nil {
		t.Error("expected error without a journal")
	}

	journal := &mockJournal{records: []*secondary.SubmissionRecord{{Ticket: "PROJ-1"}}}
	records, err := NewReportService(cal, ledger, journal).ListSubmissions(context.Background(), secondary.SubmissionFilters{})
	if err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want 1", len(records))
	}
}
