package ticket

import (
	"errors"
	"regexp"
	"testing"
)

var jiraPattern = regexp.MustCompile(`[A-Z][A-Z0-9]+-\d+`)

func TestMatch(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"single ref", "PROJ-12 fix login", "PROJ-12", true},
		{"ref in middle", "fix login (PROJ-12)", "PROJ-12", true},
		{"first of many wins", "OPS-9 follow-up to PROJ-12", "OPS-9", true},
		{"repeated ref", "PROJ-1 and PROJ-1 again", "PROJ-1", true},
		{"lowercase is not a ref", "proj-12 fix", "", false},
		{"no ref", "refactor parser", "", false},
		{"ref in body", "tidy up\n\nRefs: PROJ-77", "PROJ-77", true},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Match(jiraPattern, tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Match(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMatch_CaptureGroup(t *testing.T) {
	re := regexp.MustCompile(`\[([A-Z]+-\d+)\]`)

	got, ok := Match(re, "[WEB-4] tweak header")
	if !ok || got != "WEB-4" {
		t.Errorf("Match = (%q, %v), want (WEB-4, true)", got, ok)
	}
}

func TestMatch_NilPattern(t *testing.T) {
	if _, ok := Match(nil, "PROJ-1"); ok {
		t.Error("Match with nil pattern should not match")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		hint   string
		want   string
		wantOK bool
	}{
		{"match beats hint", "PROJ-1 work", "PROJ-9", "PROJ-1", true},
		{"hint used without match", "wip", "PROJ-9", "PROJ-9", true},
		{"nothing without hint", "wip", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(jiraPattern, tt.text, tt.hint)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Resolve(%q, %q) = (%q, %v), want (%q, %v)", tt.text, tt.hint, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	msg := "OPS-3 revert PROJ-8 and ABC-1"
	first, _ := Resolve(jiraPattern, msg, "X-1")
	for i := 0; i < 50; i++ {
		got, _ := Resolve(jiraPattern, msg, "X-1")
		if got != first {
			t.Fatalf("iteration %d: Resolve = %q, want %q", i, got, first)
		}
	}
}

func TestCompile(t *testing.T) {
	if _, err := Compile(`[A-Z]+-\d+`); err != nil {
		t.Errorf("Compile valid pattern: %v", err)
	}
	if _, err := Compile("  "); !errors.Is(err, ErrEmptyPattern) {
		t.Errorf("Compile blank = %v, want ErrEmptyPattern", err)
	}
	if _, err := Compile(`[A-Z+-\d`); err == nil {
		t.Error("Compile invalid pattern should fail")
	}
}
