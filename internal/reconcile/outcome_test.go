package reconcile

import (
	"testing"
)

func TestOutcomeSuccess(t *testing.T) {
	outcome := Outcome{
		Success:       true,
		MergedCommits: 2,
		Message:       "merged 2 commit(s) from worker/alpha",
	}

	if !outcome.Success {
		t.Error("expected Success to be true")
	}
	if len(outcome.ConflictFiles) != 0 {
		t.Errorf("expected empty ConflictFiles, got %v", outcome.ConflictFiles)
	}
	if outcome.MergedCommits != 2 {
		t.Errorf("MergedCommits = %d, want 2", outcome.MergedCommits)
	}
}

func TestOutcomeConflict(t *testing.T) {
	outcome := Outcome{
		Success:       false,
		ConflictFiles: []string{"schema.sql", "routes.ts"},
		Message:       "merge conflict in 2 file(s)",
	}

	if outcome.Success {
		t.Error("expected Success to be false")
	}
	if len(outcome.ConflictFiles) != 2 {
		t.Fatalf("expected 2 conflict files, got %d", len(outcome.ConflictFiles))
	}
	if outcome.ConflictFiles[0] != "schema.sql" {
		t.Errorf("ConflictFiles[0] = %q, want %q", outcome.ConflictFiles[0], "schema.sql")
	}
	if outcome.MergedCommits != 0 {
		t.Errorf("MergedCommits = %d, want 0 on conflict", outcome.MergedCommits)
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	l := NopLogger()
	l.Log("message that goes nowhere: %d", 1)
	if err := l.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	var nilLogger *DebugLogger
	nilLogger.Log("nil logger must not panic")
	if err := nilLogger.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}
}
