// Package state provides SQLite-based persistence for trunkline.
package state

import "io"

// WorkspaceStore handles workspace registry operations.
type WorkspaceStore interface {
	RecordWorkspace(w *WorkspaceRecord) error
	MarkDestroyed(agentID string) error
	GetWorkspace(agentID string) (*WorkspaceRecord, error)
	ActiveWorkspaces() ([]WorkspaceRecord, error)
}

// MergeLog handles the reconciliation audit log.
type MergeLog interface {
	RecordMerge(m *MergeRecord) error
	RecentMerges(limit int) ([]MergeRecord, error)
}

// Migrator handles database schema migrations.
type Migrator interface {
	// Migrate applies all pending schema migrations.
	Migrate() error
}

// Store defines the interface for state persistence. It composes
// focused sub-interfaces so callers can depend on just what they use.
type Store interface {
	io.Closer
	Migrator
	WorkspaceStore
	MergeLog
}

// Compile-time verification that DB implements all interfaces.
var (
	_ Store          = (*DB)(nil)
	_ Migrator       = (*DB)(nil)
	_ WorkspaceStore = (*DB)(nil)
	_ MergeLog       = (*DB)(nil)
)
