package trunk

import (
	"os/exec"
	"path/filepath"
	"testing"
)

// requireGit skips the test when git is not installed.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}
}

func TestExistsEmptyDir(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "trunk"))
	if r.Exists() {
		t.Error("Exists() = true for a path with no repository")
	}
}

func TestInitCreatesRootCommit(t *testing.T) {
	requireGit(t)

	r := New(filepath.Join(t.TempDir(), "trunk"))
	if err := r.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if !r.Exists() {
		t.Error("Exists() = false after Init")
	}

	branch, err := r.GitRunner().CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch() error = %v", err)
	}
	if branch != DefaultBranch {
		t.Errorf("current branch = %q, want %q", branch, DefaultBranch)
	}

	head, err := r.Head()
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}
	if head == "" {
		t.Error("Head() empty, want root commit hash")
	}
}

func TestInitIdempotent(t *testing.T) {
	requireGit(t)

	r := New(filepath.Join(t.TempDir(), "trunk"))
	if err := r.Init(); err != nil {
		t.Fatalf("first Init() error = %v", err)
	}
	first, err := r.Head()
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}

	if err := r.Init(); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	second, err := r.Head()
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}

	if first != second {
		t.Errorf("Init on existing trunk moved the tip: %s -> %s", first, second)
	}
}
