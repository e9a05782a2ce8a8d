package reconcile

import (
	"errors"
	"fmt"

	"trunkline/internal/git"
	"trunkline/internal/trunk"
	"trunkline/internal/workspace"
)

// ErrNoWorkspace indicates a reconciliation call for an agent with no
// live workspace. A precondition violation, never retried.
var ErrNoWorkspace = errors.New("no workspace for agent")

// autoCommitMessage is the synthetic message used when pending edits
// are committed on the agent's behalf before a merge or sync.
const autoCommitMessage = "trunkline: checkpoint agent work"

// DiffUnavailable is returned by BranchDiff when the diff cannot be
// computed, instead of an error.
const DiffUnavailable = "(diff unavailable)"

// Engine reconciles one trunk with its workspaces. Merges against the
// same trunk are serialized through the trunk's merge lock; syncs and
// inspection run concurrently since they only read the trunk and write
// the agent's own worktree.
type Engine struct {
	trunk      *trunk.Repository
	workspaces *workspace.Manager
	git        git.Runner
	newRunner  func(path string) git.Runner
	debugLog   func(format string, args ...interface{})
}

// NewEngine creates an Engine over the given trunk and workspace
// manager.
func NewEngine(t *trunk.Repository, m *workspace.Manager) *Engine {
	return &Engine{
		trunk:      t,
		workspaces: m,
		git:        t.GitRunner(),
		newRunner: func(path string) git.Runner {
			return git.NewRunner(path)
		},
		debugLog: func(format string, args ...interface{}) {},
	}
}

// SetRunnerFactory overrides how workspace-side git runners are built
// (for testing).
func (e *Engine) SetRunnerFactory(fn func(path string) git.Runner) {
	if fn != nil {
		e.newRunner = fn
	}
}

// SetDebugLog sets the debug logging function.
func (e *Engine) SetDebugLog(fn func(format string, args ...interface{})) {
	if fn != nil {
		e.debugLog = fn
	}
}

// lookup resolves a live workspace or reports the precondition
// violation.
func (e *Engine) lookup(agentID string) (*workspace.Workspace, error) {
	ws, err := e.workspaces.Get(agentID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoWorkspace, agentID)
	}
	return ws, nil
}

// autoCommit stages and commits any pending edits in the workspace
// under a synthetic message. A clean working tree is a no-op.
func (e *Engine) autoCommit(wsGit git.Runner, agentID string) (bool, error) {
	dirty, err := wsGit.HasChanges()
	if err != nil {
		return false, fmt.Errorf("check workspace status: %w", err)
	}
	if !dirty {
		return false, nil
	}
	if err := wsGit.AddAll(); err != nil {
		return false, fmt.Errorf("stage workspace changes: %w", err)
	}
	if err := wsGit.Commit(autoCommitMessage); err != nil {
		return false, fmt.Errorf("commit workspace changes: %w", err)
	}
	e.debugLog("[reconcile] auto-committed pending edits for %s", agentID)
	return true, nil
}

// MergeBranch finalizes an agent's work into the trunk. Pending edits
// are auto-committed, the branch is merged into the integration branch
// with a merge commit (even when a fast-forward is possible, so each
// agent's contribution boundary stays visible in history), and the
// outcome is classified. A conflicting merge is aborted so the trunk's
// working tree returns to its pre-merge clean state, and the
// conflicting paths are reported in the outcome.
func (e *Engine) MergeBranch(agentID string) (*Outcome, error) {
	ws, err := e.lookup(agentID)
	if err != nil {
		return nil, err
	}

	wsGit := e.newRunner(ws.Path)
	if _, err := e.autoCommit(wsGit, agentID); err != nil {
		return nil, err
	}

	ahead, err := e.git.CountRange(trunk.DefaultBranch, ws.BranchName)
	if err != nil {
		return nil, fmt.Errorf("compute divergence: %w", err)
	}
	if ahead == 0 {
		// An agent may finish a task without producing changes.
		return &Outcome{Success: true, Message: "nothing to merge"}, nil
	}

	// The trunk's working directory cannot be mid-merge for two
	// branches at once; everything from here to the classification is
	// one critical section.
	e.trunk.LockMerges()
	defer e.trunk.UnlockMerges()

	if err := e.git.CheckoutBranch(trunk.DefaultBranch); err != nil {
		return nil, fmt.Errorf("checkout %s: %w", trunk.DefaultBranch, err)
	}

	message := fmt.Sprintf("Merge %s (%d commits)", ws.BranchName, ahead)
	if err := e.git.MergeNoFF(ws.BranchName, message); err != nil {
		e.debugLog("[reconcile] merge of %s failed: %v", ws.BranchName, err)

		conflictFiles, _ := e.git.ConflictedFiles()
		if abortErr := e.git.MergeAbort(); abortErr != nil {
			// The trunk must never be left dirty; a failed abort is
			// fatal and needs manual inspection.
			return nil, fmt.Errorf("abort conflicted merge: %w", abortErr)
		}

		return &Outcome{
			Success:       false,
			ConflictFiles: conflictFiles,
			Message:       fmt.Sprintf("merge conflict in %d file(s)", len(conflictFiles)),
		}, nil
	}

	e.debugLog("[reconcile] merged %d commit(s) from %s", ahead, ws.BranchName)
	return &Outcome{
		Success:       true,
		MergedCommits: ahead,
		Message:       fmt.Sprintf("merged %d commit(s) from %s", ahead, ws.BranchName),
	}, nil
}

// UpdateWorktree pulls the trunk's latest state into one agent's
// branch without finalizing anything: pending edits are auto-committed
// and the branch is rebased onto the current integration tip, inside
// the workspace's own working directory. On conflict the rebase is
// aborted and the workspace returns to its pre-rebase state. This
// operation does not take the trunk merge lock; it only reads the
// trunk and rewrites the agent's own branch.
func (e *Engine) UpdateWorktree(agentID string) (*Outcome, error) {
	ws, err := e.lookup(agentID)
	if err != nil {
		return nil, err
	}

	wsGit := e.newRunner(ws.Path)
	if _, err := e.autoCommit(wsGit, agentID); err != nil {
		return nil, err
	}

	behind, err := e.git.CountRange(ws.BranchName, trunk.DefaultBranch)
	if err != nil {
		return nil, fmt.Errorf("compute divergence: %w", err)
	}
	if behind == 0 {
		return &Outcome{Success: true, Message: "already up to date with " + trunk.DefaultBranch}, nil
	}

	if err := wsGit.Rebase(trunk.DefaultBranch); err != nil {
		e.debugLog("[reconcile] rebase of %s failed: %v", ws.BranchName, err)

		conflictFiles, _ := wsGit.ConflictedFiles()
		if abortErr := wsGit.RebaseAbort(); abortErr != nil {
			return nil, fmt.Errorf("abort conflicted rebase: %w", abortErr)
		}

		return &Outcome{
			Success:       false,
			ConflictFiles: conflictFiles,
			Message:       fmt.Sprintf("rebase conflict in %d file(s)", len(conflictFiles)),
		}, nil
	}

	e.debugLog("[reconcile] rebased %s onto %s (%d commit(s) behind)", ws.BranchName, trunk.DefaultBranch, behind)
	return &Outcome{
		Success: true,
		Message: fmt.Sprintf("rebased %s onto %s", ws.BranchName, trunk.DefaultBranch),
	}, nil
}

// BranchDiff returns a diffstat summary of the agent's branch versus
// the integration branch, computed from the trunk side. Returns a
// sentinel string rather than an error when the diff is unavailable.
func (e *Engine) BranchDiff(agentID string) string {
	ws, err := e.lookup(agentID)
	if err != nil {
		return DiffUnavailable
	}
	diff, err := e.git.DiffStat(ws.BranchName, trunk.DefaultBranch)
	if err != nil {
		return DiffUnavailable
	}
	if diff == "" {
		return "(no changes)"
	}
	return diff
}

// BranchStatus returns the working-tree status of the agent's
// workspace, computed from inside the worktree.
func (e *Engine) BranchStatus(agentID string) (string, error) {
	ws, err := e.lookup(agentID)
	if err != nil {
		return "", err
	}
	return e.newRunner(ws.Path).Status()
}

// TrunkStatus returns the trunk working tree's porcelain status. After
// a host crash mid-merge this is the recommended check before any
// further merges: outcomes are at-most-once, and a non-empty status
// means the trunk needs manual inspection.
func (e *Engine) TrunkStatus() (string, error) {
	return e.git.Status()
}

// Commit stages and commits everything pending at the given workspace
// path. Returns false rather than an error when there is nothing to
// commit, since an empty commit request is a normal outcome.
func (e *Engine) Commit(path, message string) (bool, error) {
	wsGit := e.newRunner(path)
	dirty, err := wsGit.HasChanges()
	if err != nil {
		return false, fmt.Errorf("check status: %w", err)
	}
	if !dirty {
		return false, nil
	}
	if err := wsGit.AddAll(); err != nil {
		return false, fmt.Errorf("stage changes: %w", err)
	}
	if err := wsGit.Commit(message); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}
