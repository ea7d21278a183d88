package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/example/gapfill/internal/models"
	"github.com/example/gapfill/internal/ports/primary"
	"github.com/example/gapfill/internal/ports/secondary"
)

func init() {
	color.NoColor = true
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// mockReconcileService implements primary.ReconcileService for testing
type mockReconcileService struct {
	reconcileFn func(ctx context.Context, req primary.ReconcileRequest) (*primary.RunSummary, error)

	lastReq primary.ReconcileRequest
}

func (m *mockReconcileService) Reconcile(ctx context.Context, req primary.ReconcileRequest) (*primary.RunSummary, error) {
	m.lastReq = req
	if m.reconcileFn != nil {
		return m.reconcileFn(ctx, req)
	}
	return &primary.RunSummary{RunID: "run-1", Today: req.Today, First: req.Today}, nil
}

func sampleSummary(publish bool) *primary.RunSummary {
	act := models.WorklogAction{Ticket: "PROJ-1", Day: day("2026-10-05"), Hours: 6, Comment: "PROJ-1 add export"}
	refused := models.WorklogAction{Ticket: "PROJ-2", Day: day("2026-10-05"), Hours: 2, Comment: "Development"}

	s := &primary.RunSummary{
		RunID:   "run-1",
		Today:   day("2026-10-05"),
		First:   day("2026-10-01"),
		Publish: publish,
		Days: []primary.DayOutcome{
			{
				Day: day("2026-10-05"), Phase: "dry_run", Expected: 8,
				Actions: []models.WorklogAction{act, refused},
				Anomalies: []models.Anomaly{
					{Day: day("2026-10-05"), Kind: models.AnomalyOverLogged, Ticket: "PROJ-3", Detail: "logged 3.00h, allocated 1.00h"},
				},
			},
			{Day: day("2026-10-04"), Phase: "dry_run"},
			{Day: day("2026-10-03"), Phase: "dry_run", Vacation: true},
			{Day: day("2026-10-02"), Phase: "failed", Expected: 8, Reason: "read worklogs: connection refused"},
		},
	}
	if publish {
		s.Days[0].Phase = "submitted"
		s.Days[0].Submitted = []models.WorklogAction{act}
		s.Days[0].Failed = []primary.FailedAction{{Action: refused, Reason: "issue does not exist"}}
	}
	return s
}

func TestReconcileAdapter_Fill_DryRun(t *testing.T) {
	mock := &mockReconcileService{
		reconcileFn: func(ctx context.Context, req primary.ReconcileRequest) (*primary.RunSummary, error) {
			return sampleSummary(false), nil
		},
	}
	var buf bytes.Buffer
	adapter := NewReconcileAdapter(mock, &buf)

	req := primary.ReconcileRequest{Today: day("2026-10-05"), Hint: "PROJ-9"}
	if err := adapter.Fill(context.Background(), req); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mock.lastReq.Hint != "PROJ-9" {
		t.Errorf("expected hint to be passed through, got %q", mock.lastReq.Hint)
	}

	out := buf.String()
	for _, want := range []string{
		"Dry run 2026-10-05 → 2026-10-01 (run run-1)",
		"2026-10-05 Mon  expected 8.00h  logged 0.00h",
		"+ PROJ-1",
		"PROJ-1 add export",
		"! over_logged PROJ-3: logged 3.00h, allocated 1.00h",
		"2026-10-04 Sun  non-working day",
		"2026-10-03 Sat  vacation",
		"Failed days:",
		"2026-10-02: read worklogs: connection refused",
		"Total: proposed 8.00h",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "submitted") {
		t.Errorf("dry run output should not report submitted hours, got:\n%s", out)
	}
}

func TestReconcileAdapter_Fill_Publish(t *testing.T) {
	mock := &mockReconcileService{
		reconcileFn: func(ctx context.Context, req primary.ReconcileRequest) (*primary.RunSummary, error) {
			return sampleSummary(true), nil
		},
	}
	var buf bytes.Buffer
	adapter := NewReconcileAdapter(mock, &buf)

	if err := adapter.Fill(context.Background(), primary.ReconcileRequest{Today: day("2026-10-05"), Publish: true}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Publishing",
		"Failed submissions:",
		"PROJ-2 2026-10-05 2.00h: issue does not exist",
		"submitted 6.00h, failed 2.00h",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestReconcileAdapter_Fill_FatalErrorPrintsPartialSummary(t *testing.T) {
	mock := &mockReconcileService{
		reconcileFn: func(ctx context.Context, req primary.ReconcileRequest) (*primary.RunSummary, error) {
			s := sampleSummary(false)
			s.Days = s.Days[:1]
			return s, secondary.ErrUnauthorized
		},
	}
	var buf bytes.Buffer
	adapter := NewReconcileAdapter(mock, &buf)

	err := adapter.Fill(context.Background(), primary.ReconcileRequest{Today: day("2026-10-05")})
	if !errors.Is(err, secondary.ErrUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if !strings.Contains(buf.String(), "+ PROJ-1") {
		t.Errorf("expected settled days to be printed, got:\n%s", buf.String())
	}
}

func TestReconcileAdapter_Fill_NoSummary(t *testing.T) {
	mock := &mockReconcileService{
		reconcileFn: func(ctx context.Context, req primary.ReconcileRequest) (*primary.RunSummary, error) {
			return nil, errors.New("unknown hint scope")
		},
	}
	var buf bytes.Buffer
	adapter := NewReconcileAdapter(mock, &buf)

	if err := adapter.Fill(context.Background(), primary.ReconcileRequest{}); err == nil {
		t.Fatal("expected error, got nil")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
