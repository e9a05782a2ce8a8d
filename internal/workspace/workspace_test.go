package workspace

import (
	"testing"
)

func TestBranchNameDerivation(t *testing.T) {
	tests := []struct {
		agentID        string
		expectedBranch string
	}{
		{"abc123", "worker/abc123"},
		{"uuid-like-id", "worker/uuid-like-id"},
		{"agent_7", "worker/agent_7"},
	}

	for _, tt := range tests {
		t.Run(tt.agentID, func(t *testing.T) {
			if got := BranchName(tt.agentID); got != tt.expectedBranch {
				t.Errorf("BranchName(%q) = %q, want %q", tt.agentID, got, tt.expectedBranch)
			}
		})
	}
}

func TestAgentIDFromBranch(t *testing.T) {
	tests := []struct {
		branch string
		wantID string
		wantOK bool
	}{
		{"worker/abc123", "abc123", true},
		{"worker/a-b-c", "a-b-c", true},
		{"main", "", false},
		{"feature/login", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.branch, func(t *testing.T) {
			id, ok := AgentIDFromBranch(tt.branch)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("AgentIDFromBranch(%q) = (%q, %v), want (%q, %v)",
					tt.branch, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestValidateAgentID(t *testing.T) {
	valid := []string{"abc", "agent-1", "a_b.c", "42"}
	for _, id := range valid {
		if err := validateAgentID(id); err != nil {
			t.Errorf("validateAgentID(%q) = %v, want nil", id, err)
		}
	}

	invalid := []string{"", "a/b", `a\b`, "..", "a..b", ".hidden", "x.lock"}
	for _, id := range invalid {
		if err := validateAgentID(id); err == nil {
			t.Errorf("validateAgentID(%q) = nil, want error", id)
		}
	}
}

func TestParseWorktreeList(t *testing.T) {
	output := `worktree /srv/trunk
branch refs/heads/main

worktree /srv/worktrees/abc123
branch refs/heads/worker/abc123

worktree /srv/worktrees/def456
branch refs/heads/worker/def456
`

	workspaces := parseWorktreeList(output)
	if len(workspaces) != 2 {
		t.Fatalf("expected 2 workspaces, got %d", len(workspaces))
	}

	if workspaces[0].AgentID != "abc123" {
		t.Errorf("workspaces[0].AgentID = %q, want %q", workspaces[0].AgentID, "abc123")
	}
	if workspaces[0].BranchName != "worker/abc123" {
		t.Errorf("workspaces[0].BranchName = %q", workspaces[0].BranchName)
	}
	if workspaces[0].Path != "/srv/worktrees/abc123" {
		t.Errorf("workspaces[0].Path = %q", workspaces[0].Path)
	}
	if workspaces[1].AgentID != "def456" {
		t.Errorf("workspaces[1].AgentID = %q, want %q", workspaces[1].AgentID, "def456")
	}
}

func TestParseWorktreeListNoTrailingNewline(t *testing.T) {
	output := `worktree /srv/worktrees/abc
branch refs/heads/worker/abc`

	workspaces := parseWorktreeList(output)
	if len(workspaces) != 1 {
		t.Fatalf("expected 1 workspace, got %d", len(workspaces))
	}
	if workspaces[0].AgentID != "abc" {
		t.Errorf("AgentID = %q, want %q", workspaces[0].AgentID, "abc")
	}
}

func TestParseWorktreeListDetachedHead(t *testing.T) {
	// Detached HEAD worktrees carry no branch line and are skipped.
	output := `worktree /srv/trunk
HEAD abc123def

worktree /srv/worktrees/live
branch refs/heads/worker/live
`

	workspaces := parseWorktreeList(output)
	if len(workspaces) != 1 {
		t.Fatalf("expected 1 workspace, got %d", len(workspaces))
	}
	if workspaces[0].AgentID != "live" {
		t.Errorf("AgentID = %q, want %q", workspaces[0].AgentID, "live")
	}
}

func TestParseWorktreeListEmpty(t *testing.T) {
	if workspaces := parseWorktreeList(""); len(workspaces) != 0 {
		t.Errorf("expected 0 workspaces, got %d", len(workspaces))
	}
}
