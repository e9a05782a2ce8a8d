package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsGitInternal(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/srv/worktrees/a/.git", true},
		{"/srv/worktrees/a/.git/index.lock", true},
		{"/srv/worktrees/a/schema.sql", false},
		{"/srv/worktrees/a/src/main.go", false},
	}

	for _, tt := range tests {
		if got := isGitInternal(tt.path); got != tt.want {
			t.Errorf("isGitInternal(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcherReportsWorkspaceWrites(t *testing.T) {
	dir := t.TempDir()

	w, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := w.Add("alpha", dir); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("work\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case ev := <-w.Events():
		if ev.AgentID != "alpha" {
			t.Errorf("AgentID = %q, want alpha", ev.AgentID)
		}
		if ev.Path != "notes.md" {
			t.Errorf("Path = %q, want notes.md", ev.Path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event received for workspace write")
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
