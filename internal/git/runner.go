package git

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	osexec "os/exec"

	"trunkline/internal/exec"
)

// Committer identity applied to every invocation so commits never
// depend on the host environment's git configuration.
const (
	CommitterName  = "trunkline"
	CommitterEmail = "trunkline@localhost"
)

// DefaultTimeout bounds each git subprocess.
const DefaultTimeout = 2 * time.Minute

// ExecRunner implements Runner by shelling out to the git binary.
type ExecRunner struct {
	repoPath string
	timeout  time.Duration
	cmd      exec.CommandRunner
}

// NewRunner creates a git runner for the repository at the given path.
func NewRunner(repoPath string) *ExecRunner {
	return NewRunnerWith(repoPath, DefaultTimeout, exec.NewRunner())
}

// NewRunnerWith creates a git runner with a custom timeout and command
// runner (for testing).
func NewRunnerWith(repoPath string, timeout time.Duration, cmd exec.CommandRunner) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecRunner{repoPath: repoPath, timeout: timeout, cmd: cmd}
}

// RepoPath returns the working directory this runner operates on.
func (r *ExecRunner) RepoPath() string {
	return r.repoPath
}

// identityArgs pin the author and committer for every git invocation.
func identityArgs() []string {
	return []string{
		"-c", "user.name=" + CommitterName,
		"-c", "user.email=" + CommitterEmail,
	}
}

// run executes a git command and returns its trimmed output.
func (r *ExecRunner) run(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	full := append(identityArgs(), args...)
	out, err := r.cmd.Run(ctx, r.repoPath, "git", full...)
	if err != nil {
		return "", &CommandError{
			Args:     args,
			Output:   strings.TrimSpace(string(out)),
			ExitCode: exitCode(err),
			Err:      cause(err),
		}
	}
	return strings.TrimSpace(string(out)), nil
}

// runSilent executes a git command and discards its output.
func (r *ExecRunner) runSilent(args ...string) error {
	_, err := r.run(args...)
	return err
}

// cause maps a context deadline to ErrTimeout.
func cause(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

// exitCode extracts the subprocess exit code, -1 when unavailable.
func exitCode(err error) int {
	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Run executes an arbitrary git command with the given arguments.
func (r *ExecRunner) Run(args ...string) (string, error) {
	return r.run(args...)
}

// Init initializes a repository with the given default branch.
func (r *ExecRunner) Init(defaultBranch string) error {
	return r.runSilent("init", "--initial-branch", defaultBranch)
}

// EmptyCommit creates a commit with no changes.
func (r *ExecRunner) EmptyCommit(message string) error {
	return r.runSilent("commit", "--allow-empty", "-m", message)
}

// HasCommits returns true if the repository has at least one commit.
func (r *ExecRunner) HasCommits() (bool, error) {
	out, err := r.run("rev-list", "-n", "1", "--all")
	if err != nil {
		// Exit code 128 means no commits yet, not a failure.
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode == 128 {
			return false, nil
		}
		return false, err
	}
	return out != "", nil
}

// CurrentBranch returns the name of the current branch.
func (r *ExecRunner) CurrentBranch() (string, error) {
	return r.run("rev-parse", "--abbrev-ref", "HEAD")
}

// CheckoutBranch switches to the specified branch.
func (r *ExecRunner) CheckoutBranch(name string) error {
	return r.runSilent("checkout", name)
}

// BranchExists returns true if the branch exists.
func (r *ExecRunner) BranchExists(name string) (bool, error) {
	err := r.runSilent("show-ref", "--verify", "--quiet", "refs/heads/"+name)
	if err != nil {
		// Exit code 1 means the branch doesn't exist (not an error).
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode == 1 {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteBranch deletes the specified branch.
func (r *ExecRunner) DeleteBranch(name string) error {
	return r.runSilent("branch", "-D", name)
}

// Status returns the output of git status --porcelain.
func (r *ExecRunner) Status() (string, error) {
	return r.run("status", "--porcelain")
}

// HasChanges returns true if there are uncommitted changes.
func (r *ExecRunner) HasChanges() (bool, error) {
	status, err := r.Status()
	if err != nil {
		return false, err
	}
	return len(status) > 0, nil
}

// DiffStat returns a diffstat summary for a branch relative to a base.
func (r *ExecRunner) DiffStat(branch, base string) (string, error) {
	return r.run("diff", "--stat", base+"..."+branch)
}

// ConflictedFiles returns a list of files with unmerged changes.
func (r *ExecRunner) ConflictedFiles() ([]string, error) {
	out, err := r.run("diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// AddAll stages every pending change, including untracked files.
func (r *ExecRunner) AddAll() error {
	return r.runSilent("add", "-A")
}

// Commit creates a new commit with the given message.
func (r *ExecRunner) Commit(message string) error {
	return r.runSilent("commit", "-m", message)
}

// MergeNoFF merges the specified branch with --no-ff and a custom message.
func (r *ExecRunner) MergeNoFF(branch, message string) error {
	return r.runSilent("merge", "--no-ff", "-m", message, branch)
}

// MergeAbort aborts an in-progress merge.
func (r *ExecRunner) MergeAbort() error {
	return r.runSilent("merge", "--abort")
}

// Rebase rebases the current branch onto the specified base.
func (r *ExecRunner) Rebase(base string) error {
	return r.runSilent("rebase", base)
}

// RebaseAbort aborts an in-progress rebase.
func (r *ExecRunner) RebaseAbort() error {
	return r.runSilent("rebase", "--abort")
}

// WorktreeAddNewBranch creates a worktree with a new branch rooted at
// startPoint. The worktree and branch are created by a single git
// operation so a failure leaves neither behind.
func (r *ExecRunner) WorktreeAddNewBranch(path, branch, startPoint string) error {
	return r.runSilent("worktree", "add", path, "-b", branch, startPoint)
}

// WorktreeRemove removes the worktree at the given path.
func (r *ExecRunner) WorktreeRemove(path string) error {
	return r.runSilent("worktree", "remove", "--force", path)
}

// WorktreeListPorcelain returns the raw porcelain output for parsing.
func (r *ExecRunner) WorktreeListPorcelain() (string, error) {
	return r.run("worktree", "list", "--porcelain")
}

// WorktreePrune removes stale worktree entries.
func (r *ExecRunner) WorktreePrune() error {
	return r.runSilent("worktree", "prune", "--expire", "now")
}

// CountRange returns the number of commits in from..to.
func (r *ExecRunner) CountRange(from, to string) (int, error) {
	out, err := r.run("rev-list", "--count", from+".."+to)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(out)
	if err != nil {
		return 0, &CommandError{
			Args:     []string{"rev-list", "--count", from + ".." + to},
			Output:   out,
			ExitCode: 0,
			Err:      err,
		}
	}
	return n, nil
}

// Verify ExecRunner implements Runner at compile time.
var _ Runner = (*ExecRunner)(nil)
