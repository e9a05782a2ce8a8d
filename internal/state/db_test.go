package state

import (
	"path/filepath"
	"testing"
	"time"
)

// openTestDB opens a migrated database under a temp dir.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "trunkline.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestMigrateIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Errorf("second Migrate() error = %v", err)
	}
}

func TestWorkspaceRegistry(t *testing.T) {
	db := openTestDB(t)

	rec := &WorkspaceRecord{
		AgentID:   "alpha",
		Branch:    "worker/alpha",
		Path:      "/srv/worktrees/alpha",
		CreatedAt: time.Now(),
	}
	if err := db.RecordWorkspace(rec); err != nil {
		t.Fatalf("RecordWorkspace() error = %v", err)
	}

	got, err := db.GetWorkspace("alpha")
	if err != nil {
		t.Fatalf("GetWorkspace() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetWorkspace() = nil for registered workspace")
	}
	if got.Branch != "worker/alpha" || got.DestroyedAt != nil {
		t.Errorf("GetWorkspace() = %+v", got)
	}

	active, err := db.ActiveWorkspaces()
	if err != nil {
		t.Fatalf("ActiveWorkspaces() error = %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("ActiveWorkspaces() = %d records, want 1", len(active))
	}

	if err := db.MarkDestroyed("alpha"); err != nil {
		t.Fatalf("MarkDestroyed() error = %v", err)
	}
	active, err = db.ActiveWorkspaces()
	if err != nil {
		t.Fatalf("ActiveWorkspaces() error = %v", err)
	}
	if len(active) != 0 {
		t.Errorf("ActiveWorkspaces() = %d records after destroy, want 0", len(active))
	}

	got, err = db.GetWorkspace("alpha")
	if err != nil {
		t.Fatalf("GetWorkspace() error = %v", err)
	}
	if got.DestroyedAt == nil {
		t.Error("DestroyedAt not stamped")
	}
}

func TestAllWorkspacesIncludesDestroyed(t *testing.T) {
	db := openTestDB(t)

	for _, id := range []string{"alpha", "beta"} {
		err := db.RecordWorkspace(&WorkspaceRecord{
			AgentID:   id,
			Branch:    "worker/" + id,
			Path:      "/srv/worktrees/" + id,
			CreatedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("RecordWorkspace(%s) error = %v", id, err)
		}
	}
	if err := db.MarkDestroyed("alpha"); err != nil {
		t.Fatalf("MarkDestroyed() error = %v", err)
	}

	all, err := db.AllWorkspaces()
	if err != nil {
		t.Fatalf("AllWorkspaces() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("AllWorkspaces() = %d records, want 2", len(all))
	}

	destroyed := 0
	for _, rec := range all {
		if rec.DestroyedAt != nil {
			destroyed++
		}
	}
	if destroyed != 1 {
		t.Errorf("destroyed records = %d, want 1", destroyed)
	}
}

func TestMarkDestroyedUnknownAgent(t *testing.T) {
	db := openTestDB(t)
	if err := db.MarkDestroyed("ghost"); err != nil {
		t.Errorf("MarkDestroyed(ghost) error = %v, want nil", err)
	}
}

func TestGetWorkspaceMissing(t *testing.T) {
	db := openTestDB(t)
	got, err := db.GetWorkspace("ghost")
	if err != nil {
		t.Fatalf("GetWorkspace() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetWorkspace(ghost) = %+v, want nil", got)
	}
}

func TestMergeAuditLog(t *testing.T) {
	db := openTestDB(t)

	first := &MergeRecord{
		AgentID:       "alpha",
		Branch:        "worker/alpha",
		Operation:     OpMerge,
		Success:       true,
		Message:       "merged 2 commit(s) from worker/alpha",
		MergedCommits: 2,
	}
	if err := db.RecordMerge(first); err != nil {
		t.Fatalf("RecordMerge() error = %v", err)
	}
	if first.ID == 0 {
		t.Error("RecordMerge() did not assign an ID")
	}

	second := &MergeRecord{
		AgentID:       "beta",
		Branch:        "worker/beta",
		Operation:     OpMerge,
		Success:       false,
		Message:       "merge conflict in 1 file(s)",
		ConflictFiles: []string{"config.txt"},
	}
	if err := db.RecordMerge(second); err != nil {
		t.Fatalf("RecordMerge() error = %v", err)
	}

	records, err := db.RecentMerges(10)
	if err != nil {
		t.Fatalf("RecentMerges() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("RecentMerges() = %d records, want 2", len(records))
	}

	// Most recent first.
	if records[0].AgentID != "beta" {
		t.Errorf("records[0].AgentID = %q, want beta", records[0].AgentID)
	}
	if records[0].Success {
		t.Error("records[0].Success = true, want false")
	}
	if len(records[0].ConflictFiles) != 1 || records[0].ConflictFiles[0] != "config.txt" {
		t.Errorf("records[0].ConflictFiles = %v", records[0].ConflictFiles)
	}
	if records[1].MergedCommits != 2 {
		t.Errorf("records[1].MergedCommits = %d, want 2", records[1].MergedCommits)
	}
}
