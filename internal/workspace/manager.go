package workspace

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"trunkline/internal/git"
	"trunkline/internal/trunk"
)

// Manager handles workspace lifecycle for agent isolation. All git
// operations run against the trunk repository; each workspace
// directory is exclusively owned by its agent while it is alive.
type Manager struct {
	trunk         *trunk.Repository
	worktreesRoot string
	git           git.Runner
	mu            sync.Mutex
}

// NewManager creates a Manager rooted at worktreesRoot. If the root is
// empty it defaults to ~/.cache/trunkline/worktrees.
func NewManager(t *trunk.Repository, worktreesRoot string) (*Manager, error) {
	if worktreesRoot == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		worktreesRoot = filepath.Join(home, ".cache", "trunkline", "worktrees")
	}

	if err := os.MkdirAll(worktreesRoot, 0755); err != nil {
		return nil, fmt.Errorf("create worktrees root: %w", err)
	}

	return &Manager{
		trunk:         t,
		worktreesRoot: worktreesRoot,
		git:           t.GitRunner(),
	}, nil
}

// Root returns the directory workspaces are created under.
func (m *Manager) Root() string {
	return m.worktreesRoot
}

// WorktreePath derives the directory for an agent's workspace.
func (m *Manager) WorktreePath(agentID string) string {
	return filepath.Join(m.worktreesRoot, agentID)
}

// Create creates a workspace for the given agent, branched off the
// trunk's current tip. The worktree and branch come from a single git
// operation, so a partial failure leaves neither behind. An empty
// agentID gets a generated UUID.
func (m *Manager) Create(agentID string) (*Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.trunk.Exists() {
		return nil, ErrTrunkMissing
	}

	if agentID == "" {
		agentID = uuid.New().String()
	}
	if err := validateAgentID(agentID); err != nil {
		return nil, fmt.Errorf("%w: %q", err, agentID)
	}

	branch := BranchName(agentID)
	path := m.WorktreePath(agentID)

	exists, err := m.git.BranchExists(branch)
	if err != nil {
		return nil, fmt.Errorf("check branch %s: %w", branch, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrExists, agentID)
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: directory %s in use", ErrExists, path)
	}

	if err := m.git.WorktreeAddNewBranch(path, branch, trunk.DefaultBranch); err != nil {
		return nil, fmt.Errorf("create worktree: %w", err)
	}

	return &Workspace{
		AgentID:    agentID,
		BranchName: branch,
		Path:       path,
		CreatedAt:  time.Now(),
	}, nil
}

// Destroy removes the workspace directory (discarding uncommitted
// edits) and deletes its branch. Missing directory or missing branch
// are each individually ignored, so destroying an already-destroyed or
// never-created workspace is a no-op.
func (m *Manager) Destroy(agentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := validateAgentID(agentID); err != nil {
		return fmt.Errorf("%w: %q", err, agentID)
	}

	path := m.WorktreePath(agentID)
	if err := m.git.WorktreeRemove(path); err != nil {
		// Git may have lost track of the worktree; fall back to
		// removing the directory directly.
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("remove worktree directory: %w", err)
		}
	}

	branch := BranchName(agentID)
	exists, err := m.git.BranchExists(branch)
	if err != nil {
		return fmt.Errorf("check branch %s: %w", branch, err)
	}
	if exists {
		if err := m.git.DeleteBranch(branch); err != nil {
			return fmt.Errorf("delete branch %s: %w", branch, err)
		}
	}

	_ = m.git.WorktreePrune()
	return nil
}

// Get returns the workspace for an agent with live ahead/behind
// counts, or nil when no workspace exists.
func (m *Manager) Get(agentID string) (*Workspace, error) {
	if err := validateAgentID(agentID); err != nil {
		return nil, fmt.Errorf("%w: %q", err, agentID)
	}

	branch := BranchName(agentID)
	exists, err := m.git.BranchExists(branch)
	if err != nil {
		return nil, fmt.Errorf("check branch %s: %w", branch, err)
	}
	if !exists {
		return nil, nil
	}

	ws := &Workspace{
		AgentID:    agentID,
		BranchName: branch,
		Path:       m.WorktreePath(agentID),
	}
	if err := m.fillDivergence(ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// List returns every live workspace with live divergence counts. The
// trunk may have moved since creation, so counts are recomputed here
// rather than trusted from any cache.
func (m *Manager) List() ([]*Workspace, error) {
	output, err := m.git.WorktreeListPorcelain()
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}

	workspaces := parseWorktreeList(output)

	// Divergence needs two rev-list walks per workspace; run them
	// concurrently since each only reads repository history.
	var g errgroup.Group
	for _, ws := range workspaces {
		g.Go(func() error {
			return m.fillDivergence(ws)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return workspaces, nil
}

// fillDivergence computes commit counts relative to the trunk.
func (m *Manager) fillDivergence(ws *Workspace) error {
	ahead, err := m.git.CountRange(trunk.DefaultBranch, ws.BranchName)
	if err != nil {
		return fmt.Errorf("count ahead for %s: %w", ws.BranchName, err)
	}
	behind, err := m.git.CountRange(ws.BranchName, trunk.DefaultBranch)
	if err != nil {
		return fmt.Errorf("count behind for %s: %w", ws.BranchName, err)
	}
	ws.Ahead = ahead
	ws.Behind = behind
	return nil
}

// parseWorktreeList extracts workspaces from 'git worktree list
// --porcelain' output, skipping the trunk and any branch outside the
// worker namespace.
func parseWorktreeList(output string) []*Workspace {
	var workspaces []*Workspace
	var path string

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			path = ""
		case strings.HasPrefix(line, "worktree "):
			path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "branch ") && path != "":
			branch := strings.TrimPrefix(line, "branch ")
			branch = strings.TrimPrefix(branch, "refs/heads/")
			if agentID, ok := AgentIDFromBranch(branch); ok {
				workspaces = append(workspaces, &Workspace{
					AgentID:    agentID,
					BranchName: branch,
					Path:       path,
				})
			}
		}
	}

	return workspaces
}

// Orphans returns worktree directories present under the root that git
// no longer tracks, typically left behind by a crash.
func (m *Manager) Orphans() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.git.WorktreePrune(); err != nil {
		return nil, fmt.Errorf("prune worktrees: %w", err)
	}

	output, err := m.git.WorktreeListPorcelain()
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}

	known := make(map[string]bool)
	for _, ws := range parseWorktreeList(output) {
		known[ws.Path] = true
	}

	entries, err := os.ReadDir(m.worktreesRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read worktrees root: %w", err)
	}

	var orphans []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(m.worktreesRoot, entry.Name())
		if !known[path] {
			orphans = append(orphans, path)
		}
	}
	return orphans, nil
}

// CleanupOrphans removes orphaned worktree directories and their
// branches, if any survive. Returns the number of directories removed.
// The verbose callback, when non-nil, is invoked per removed path.
func (m *Manager) CleanupOrphans(verbose func(path string)) (int, error) {
	orphans, err := m.Orphans()
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for _, path := range orphans {
		if err := m.git.WorktreeRemove(path); err != nil {
			if err := os.RemoveAll(path); err != nil {
				continue
			}
		}

		branch := BranchName(filepath.Base(path))
		if exists, err := m.git.BranchExists(branch); err == nil && exists {
			_ = m.git.DeleteBranch(branch)
		}

		if verbose != nil {
			verbose(path)
		}
		removed++
	}

	_ = m.git.WorktreePrune()
	return removed, nil
}
