package db

import (
	"path/filepath"
	"testing"
)

func TestOpen_FreshDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	var version int
	if err := database.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		t.Fatalf("read schema_version: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("schema version = %d, want %d", version, len(migrations))
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if _, err := first.Exec("INSERT INTO submissions (run_id, ticket, day, hours, status) VALUES ('r', 'PROJ-1', '2026-10-12', 1, 'submitted')"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer second.Close()

	var n int
	if err := second.QueryRow("SELECT COUNT(*) FROM submissions").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("rows after reopen = %d, want 1", n)
	}
}

func TestRunMigrations_FromVersionOne(t *testing.T) {
	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	if _, err := database.Exec("DELETE FROM schema_version WHERE version > 1"); err != nil {
		t.Fatalf("rewind: %v", err)
	}
	if _, err := database.Exec("DROP INDEX idx_submissions_day"); err != nil {
		t.Fatalf("drop index: %v", err)
	}

	if err := RunMigrations(database); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	var n int
	err = database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_submissions_day'").Scan(&n)
	if err != nil {
		t.Fatalf("lookup index: %v", err)
	}
	if n != 1 {
		t.Error("idx_submissions_day was not recreated")
	}
}
