// Package trunk manages the shared integration repository all worker
// branches merge into.
package trunk

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"trunkline/internal/git"
)

// DefaultBranch is the canonical name of the integration branch.
const DefaultBranch = "main"

// rootCommitMessage seeds the repository so every future branch has a
// common ancestor.
const rootCommitMessage = "trunkline: initialize trunk"

// Repository is the single shared history all agents write into. It
// owns the per-trunk merge lock: higher-level merge semantics
// (auto-commit, merge, conflict classification) must be atomic as a
// unit, so serialization lives here rather than in git's own locking.
type Repository struct {
	path    string
	git     git.Runner
	mergeMu sync.Mutex
}

// New creates a Repository handle for the given root path.
func New(path string) *Repository {
	return NewWithRunner(path, git.NewRunner(path))
}

// NewWithRunner creates a Repository with a custom git runner (for
// testing).
func NewWithRunner(path string, runner git.Runner) *Repository {
	return &Repository{path: path, git: runner}
}

// Path returns the absolute path of the trunk repository.
func (r *Repository) Path() string {
	return r.path
}

// GitRunner returns the git runner bound to the trunk's working
// directory.
func (r *Repository) GitRunner() git.Runner {
	return r.git
}

// Exists reports whether the root path contains a git repository.
// It is a pure existence check and never returns an error.
func (r *Repository) Exists() bool {
	info, err := os.Stat(filepath.Join(r.path, ".git"))
	return err == nil && info.IsDir()
}

// Init initializes the trunk if the root path has no repository yet.
// The integration branch becomes the default branch and one empty
// commit is created so every future branch has a common ancestor.
// Calling Init on an existing trunk is a no-op.
func (r *Repository) Init() error {
	if err := os.MkdirAll(r.path, 0755); err != nil {
		return fmt.Errorf("create trunk directory: %w", err)
	}

	if r.Exists() {
		return nil
	}

	if err := r.git.Init(DefaultBranch); err != nil {
		return fmt.Errorf("init trunk repository: %w", err)
	}
	if err := r.git.EmptyCommit(rootCommitMessage); err != nil {
		return fmt.Errorf("create root commit: %w", err)
	}
	return nil
}

// Head returns the current tip of the integration branch.
func (r *Repository) Head() (string, error) {
	out, err := r.git.Run("rev-parse", DefaultBranch)
	if err != nil {
		return "", fmt.Errorf("resolve trunk tip: %w", err)
	}
	return out, nil
}

// LockMerges serializes trunk-mutating reconciliation. Operations
// against different Repository instances are independent.
func (r *Repository) LockMerges() {
	r.mergeMu.Lock()
}

// UnlockMerges releases the merge lock.
func (r *Repository) UnlockMerges() {
	r.mergeMu.Unlock()
}
