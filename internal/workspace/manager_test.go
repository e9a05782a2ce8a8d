package workspace

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"trunkline/internal/trunk"
)

// requireGit skips the test when git is not installed.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}
}

// newTestManager initializes a trunk and manager under a temp dir.
func newTestManager(t *testing.T) *Manager {
	t.Helper()
	root := t.TempDir()

	tr := trunk.New(filepath.Join(root, "trunk"))
	if err := tr.Init(); err != nil {
		t.Fatalf("trunk init: %v", err)
	}

	m, err := NewManager(tr, filepath.Join(root, "worktrees"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestCreateRequiresTrunk(t *testing.T) {
	root := t.TempDir()
	tr := trunk.New(filepath.Join(root, "trunk")) // never initialized

	m, err := NewManager(tr, filepath.Join(root, "worktrees"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	_, err = m.Create("a")
	if !errors.Is(err, ErrTrunkMissing) {
		t.Errorf("Create() error = %v, want ErrTrunkMissing", err)
	}
}

func TestCreateAndGet(t *testing.T) {
	requireGit(t)
	m := newTestManager(t)

	ws, err := m.Create("alpha")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if ws.BranchName != "worker/alpha" {
		t.Errorf("BranchName = %q, want %q", ws.BranchName, "worker/alpha")
	}
	if ws.Path != m.WorktreePath("alpha") {
		t.Errorf("Path = %q, want %q", ws.Path, m.WorktreePath("alpha"))
	}
	if ws.Ahead != 0 || ws.Behind != 0 {
		t.Errorf("fresh workspace diverged: ahead=%d behind=%d", ws.Ahead, ws.Behind)
	}
	if _, err := os.Stat(ws.Path); err != nil {
		t.Errorf("worktree directory missing: %v", err)
	}

	got, err := m.Get("alpha")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() = nil for live workspace")
	}
	if got.BranchName != ws.BranchName || got.Path != ws.Path {
		t.Errorf("Get() = %+v, want %+v", got, ws)
	}
}

func TestCreateDuplicateFails(t *testing.T) {
	requireGit(t)
	m := newTestManager(t)

	if _, err := m.Create("alpha"); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	_, err := m.Create("alpha")
	if !errors.Is(err, ErrExists) {
		t.Errorf("second Create() error = %v, want ErrExists", err)
	}
}

func TestCreateDisjointWorkspaces(t *testing.T) {
	requireGit(t)
	m := newTestManager(t)

	a, err := m.Create("alpha")
	if err != nil {
		t.Fatalf("Create(alpha): %v", err)
	}
	b, err := m.Create("beta")
	if err != nil {
		t.Fatalf("Create(beta): %v", err)
	}

	if a.Path == b.Path {
		t.Errorf("workspaces share a path: %s", a.Path)
	}
	if a.BranchName == b.BranchName {
		t.Errorf("workspaces share a branch: %s", a.BranchName)
	}

	// Destroying one never affects the other.
	if err := m.Destroy("alpha"); err != nil {
		t.Fatalf("Destroy(alpha): %v", err)
	}
	got, err := m.Get("beta")
	if err != nil {
		t.Fatalf("Get(beta): %v", err)
	}
	if got == nil {
		t.Error("beta destroyed alongside alpha")
	}
}

func TestDestroyIdempotent(t *testing.T) {
	requireGit(t)
	m := newTestManager(t)

	if _, err := m.Create("alpha"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := m.Destroy("alpha"); err != nil {
		t.Fatalf("first Destroy() error = %v", err)
	}
	if err := m.Destroy("alpha"); err != nil {
		t.Errorf("second Destroy() error = %v, want nil", err)
	}
	if err := m.Destroy("never-created"); err != nil {
		t.Errorf("Destroy(never-created) error = %v, want nil", err)
	}

	got, err := m.Get("alpha")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Error("Get() returned a destroyed workspace")
	}
	if _, err := os.Stat(m.WorktreePath("alpha")); !os.IsNotExist(err) {
		t.Error("worktree directory survived Destroy")
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	requireGit(t)
	m := newTestManager(t)

	ws, err := m.Get("ghost")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ws != nil {
		t.Errorf("Get() = %+v, want nil", ws)
	}
}

func TestListLiveWorkspaces(t *testing.T) {
	requireGit(t)
	m := newTestManager(t)

	for _, id := range []string{"alpha", "beta"} {
		if _, err := m.Create(id); err != nil {
			t.Fatalf("Create(%s): %v", id, err)
		}
	}

	workspaces, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(workspaces) != 2 {
		t.Fatalf("List() returned %d workspaces, want 2", len(workspaces))
	}

	if err := m.Destroy("alpha"); err != nil {
		t.Fatalf("Destroy(alpha): %v", err)
	}
	if err := m.Destroy("beta"); err != nil {
		t.Fatalf("Destroy(beta): %v", err)
	}

	workspaces, err = m.List()
	if err != nil {
		t.Fatalf("List() after destroy error = %v", err)
	}
	if len(workspaces) != 0 {
		t.Errorf("List() after destroy returned %d workspaces, want 0", len(workspaces))
	}
}

func TestCleanupOrphans(t *testing.T) {
	requireGit(t)
	m := newTestManager(t)

	// A stray directory under the root that git never tracked.
	stray := filepath.Join(m.Root(), "stray")
	if err := os.MkdirAll(stray, 0755); err != nil {
		t.Fatalf("mkdir stray: %v", err)
	}
	if _, err := m.Create("alpha"); err != nil {
		t.Fatalf("Create(alpha): %v", err)
	}

	removed, err := m.CleanupOrphans(nil)
	if err != nil {
		t.Fatalf("CleanupOrphans() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("CleanupOrphans() removed %d, want 1", removed)
	}
	if _, err := os.Stat(stray); !os.IsNotExist(err) {
		t.Error("stray directory survived cleanup")
	}

	// The live workspace is untouched.
	ws, err := m.Get("alpha")
	if err != nil || ws == nil {
		t.Errorf("live workspace lost after cleanup: ws=%v err=%v", ws, err)
	}
}
