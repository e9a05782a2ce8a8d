// Package workspace manages per-agent isolated working copies and
// their backing branches.
package workspace

import (
	"errors"
	"strings"
	"time"
)

// BranchPrefix namespaces every workspace branch under the trunk.
const BranchPrefix = "worker/"

// Workspace is an isolated working directory plus branch bound to one
// agent. Ahead/Behind are computed against the trunk on demand, never
// cached.
type Workspace struct {
	// AgentID is the opaque caller-supplied identifier; unique key.
	AgentID string
	// BranchName is derived deterministically as worker/<agentID>.
	BranchName string
	// Path is the absolute path to the worktree directory.
	Path string
	// Ahead counts commits on the branch not yet on the trunk.
	Ahead int
	// Behind counts trunk commits the branch has not seen.
	Behind int
	// CreatedAt is when the workspace was created.
	CreatedAt time.Time
}

// Typed precondition violations surfaced to callers; never retried.
var (
	// ErrTrunkMissing indicates the trunk repository does not exist yet.
	ErrTrunkMissing = errors.New("trunk repository not initialized")
	// ErrExists indicates a live workspace already exists for the agent.
	ErrExists = errors.New("workspace already exists")
	// ErrInvalidAgentID indicates the identifier cannot be used to
	// derive a branch and directory name.
	ErrInvalidAgentID = errors.New("invalid agent id")
)

// BranchName derives the workspace branch for an agent. Pure function
// so naming can be asserted without touching the filesystem.
func BranchName(agentID string) string {
	return BranchPrefix + agentID
}

// AgentIDFromBranch extracts the agent identifier from a workspace
// branch name. Returns false for branches outside the worker namespace.
func AgentIDFromBranch(branch string) (string, bool) {
	if !strings.HasPrefix(branch, BranchPrefix) {
		return "", false
	}
	return strings.TrimPrefix(branch, BranchPrefix), true
}

// validateAgentID rejects identifiers that would escape the worktrees
// directory or produce malformed refs.
func validateAgentID(agentID string) error {
	if agentID == "" {
		return ErrInvalidAgentID
	}
	if strings.ContainsAny(agentID, "/\\") || strings.Contains(agentID, "..") {
		return ErrInvalidAgentID
	}
	if strings.HasPrefix(agentID, ".") || strings.HasSuffix(agentID, ".lock") {
		return ErrInvalidAgentID
	}
	return nil
}
