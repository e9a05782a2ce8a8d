// Package git provides an interface for git operations.
package git

// RepoOperations defines the interface for repository-level operations.
type RepoOperations interface {
	// Init initializes a repository with the given default branch.
	Init(defaultBranch string) error
	// EmptyCommit creates a commit with no changes (--allow-empty).
	EmptyCommit(message string) error
	// HasCommits returns true if the repository has at least one commit.
	HasCommits() (bool, error)
}

// BranchOperations defines the interface for git branch operations.
type BranchOperations interface {
	// CurrentBranch returns the name of the current branch.
	CurrentBranch() (string, error)
	// CheckoutBranch switches to the specified branch.
	CheckoutBranch(name string) error
	// BranchExists returns true if the branch exists.
	BranchExists(name string) (bool, error)
	// DeleteBranch deletes the specified branch (force delete).
	DeleteBranch(name string) error
}

// DiffOperations defines the interface for git diff and status operations.
type DiffOperations interface {
	// Status returns the output of git status --porcelain.
	Status() (string, error)
	// HasChanges returns true if there are uncommitted changes.
	HasChanges() (bool, error)
	// DiffStat returns a diffstat summary for a branch relative to a base.
	// Uses the triple-dot diff (base...branch).
	DiffStat(branch, base string) (string, error)
	// ConflictedFiles returns a list of files with unmerged changes.
	ConflictedFiles() ([]string, error)
}

// CommitOperations defines the interface for git commit operations.
type CommitOperations interface {
	// AddAll stages every pending change, including untracked files.
	AddAll() error
	// Commit creates a new commit with the given message.
	Commit(message string) error
}

// MergeOperations defines the interface for git merge and rebase operations.
type MergeOperations interface {
	// MergeNoFF merges the specified branch with --no-ff and a custom message.
	MergeNoFF(branch, message string) error
	// MergeAbort aborts an in-progress merge.
	MergeAbort() error
	// Rebase rebases the current branch onto the specified base.
	Rebase(base string) error
	// RebaseAbort aborts an in-progress rebase.
	RebaseAbort() error
}

// WorktreeOperations defines the interface for git worktree operations.
type WorktreeOperations interface {
	// WorktreeAddNewBranch creates a worktree at path with a new branch
	// rooted at startPoint (git worktree add path -b branch startPoint).
	WorktreeAddNewBranch(path, branch, startPoint string) error
	// WorktreeRemove removes the worktree at the given path, discarding
	// uncommitted changes (--force).
	WorktreeRemove(path string) error
	// WorktreeListPorcelain returns the raw porcelain output for parsing.
	WorktreeListPorcelain() (string, error)
	// WorktreePrune removes stale worktree entries (--expire now).
	WorktreePrune() error
}

// RevOperations defines the interface for revision counting.
type RevOperations interface {
	// CountRange returns the number of commits reachable from "to" but
	// not from "from" (git rev-list --count from..to).
	CountRange(from, to string) (int, error)
}

// Runner defines the complete interface for git operations.
// This interface embeds all focused interfaces for full functionality.
// Consumers should prefer using focused interfaces when possible.
type Runner interface {
	RepoOperations
	BranchOperations
	DiffOperations
	CommitOperations
	MergeOperations
	WorktreeOperations
	RevOperations
	// Run executes an arbitrary git command with the given arguments.
	// Returns the command output and an error if the command fails.
	Run(args ...string) (string, error)
}
