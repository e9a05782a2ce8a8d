// Package reconcile moves changes between agent workspaces and the
// trunk: auto-commit, merge-into-trunk, rebase-onto-trunk, and outcome
// classification.
package reconcile

// Outcome represents the result of a merge or sync operation. It is an
// ephemeral value, never persisted as subsystem state.
type Outcome struct {
	// Success indicates whether the operation completed. A workspace
	// with nothing to merge still succeeds.
	Success bool
	// ConflictFiles lists the paths in conflict; empty unless the
	// operation failed on a true content conflict.
	ConflictFiles []string
	// MergedCommits counts the commits brought into the trunk.
	MergedCommits int
	// Message is a human-readable summary distinguishing "nothing to
	// merge" from "merged N commits" from "conflict".
	Message string
}
