package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// WorkspaceRecord is the persisted view of a workspace's lifetime.
type WorkspaceRecord struct {
	AgentID     string     `json:"agent_id"`
	Branch      string     `json:"branch"`
	Path        string     `json:"path"`
	CreatedAt   time.Time  `json:"created_at"`
	DestroyedAt *time.Time `json:"destroyed_at"`
}

// MergeOperation distinguishes audit entries.
type MergeOperation string

const (
	OpMerge MergeOperation = "merge"
	OpSync  MergeOperation = "sync"
)

// MergeRecord is one audit-log entry for a reconciliation attempt.
type MergeRecord struct {
	ID            int64          `json:"id"`
	AgentID       string         `json:"agent_id"`
	Branch        string         `json:"branch"`
	Operation     MergeOperation `json:"operation"`
	Success       bool           `json:"success"`
	Message       string         `json:"message"`
	ConflictFiles []string       `json:"conflict_files"`
	MergedCommits int            `json:"merged_commits"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

// RecordWorkspace registers a freshly created workspace. Re-creating
// an agent ID after a destroy replaces the old row.
func (db *DB) RecordWorkspace(w *WorkspaceRecord) error {
	_, err := db.Exec(`
		INSERT OR REPLACE INTO workspaces (agent_id, branch, path, created_at, destroyed_at)
		VALUES (?, ?, ?, ?, NULL)
	`, w.AgentID, w.Branch, w.Path, formatTime(w.CreatedAt))
	if err != nil {
		return fmt.Errorf("record workspace: %w", err)
	}
	return nil
}

// MarkDestroyed stamps a workspace row as destroyed. Unknown agent IDs
// are ignored to keep destroy idempotent end to end.
func (db *DB) MarkDestroyed(agentID string) error {
	_, err := db.Exec(`
		UPDATE workspaces SET destroyed_at = ? WHERE agent_id = ? AND destroyed_at IS NULL
	`, formatTime(time.Now()), agentID)
	if err != nil {
		return fmt.Errorf("mark workspace destroyed: %w", err)
	}
	return nil
}

// GetWorkspace retrieves a workspace record by agent ID, nil when
// absent.
func (db *DB) GetWorkspace(agentID string) (*WorkspaceRecord, error) {
	row := db.QueryRow(`
		SELECT agent_id, branch, path, created_at, destroyed_at
		FROM workspaces WHERE agent_id = ?
	`, agentID)

	w, err := scanWorkspace(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get workspace: %w", err)
	}
	return w, nil
}

// ActiveWorkspaces lists workspaces not yet marked destroyed.
func (db *DB) ActiveWorkspaces() ([]WorkspaceRecord, error) {
	rows, err := db.Query(`
		SELECT agent_id, branch, path, created_at, destroyed_at
		FROM workspaces WHERE destroyed_at IS NULL ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list active workspaces: %w", err)
	}
	defer rows.Close()

	var records []WorkspaceRecord
	for rows.Next() {
		w, err := scanWorkspace(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		records = append(records, *w)
	}
	return records, rows.Err()
}

// AllWorkspaces lists every recorded workspace, destroyed ones
// included, oldest first.
func (db *DB) AllWorkspaces() ([]WorkspaceRecord, error) {
	rows, err := db.Query(`
		SELECT agent_id, branch, path, created_at, destroyed_at
		FROM workspaces ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	var records []WorkspaceRecord
	for rows.Next() {
		w, err := scanWorkspace(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		records = append(records, *w)
	}
	return records, rows.Err()
}

func scanWorkspace(scan func(...interface{}) error) (*WorkspaceRecord, error) {
	var w WorkspaceRecord
	var createdAt string
	var destroyedAt sql.NullString
	if err := scan(&w.AgentID, &w.Branch, &w.Path, &createdAt, &destroyedAt); err != nil {
		return nil, err
	}
	w.CreatedAt, _ = parseTime(createdAt)
	if destroyedAt.Valid {
		t, err := parseTime(destroyedAt.String)
		if err == nil {
			w.DestroyedAt = &t
		}
	}
	return &w, nil
}

// RecordMerge appends one reconciliation attempt to the audit log.
func (db *DB) RecordMerge(m *MergeRecord) error {
	conflicts, err := json.Marshal(m.ConflictFiles)
	if err != nil {
		return fmt.Errorf("marshal conflict files: %w", err)
	}
	if m.OccurredAt.IsZero() {
		m.OccurredAt = time.Now()
	}

	res, err := db.Exec(`
		INSERT INTO merges (agent_id, branch, operation, success, message, conflict_files, merged_commits, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.AgentID, m.Branch, string(m.Operation), boolToInt(m.Success), m.Message,
		string(conflicts), m.MergedCommits, formatTime(m.OccurredAt))
	if err != nil {
		return fmt.Errorf("record merge: %w", err)
	}
	m.ID, _ = res.LastInsertId()
	return nil
}

// RecentMerges returns the newest audit entries, most recent first.
func (db *DB) RecentMerges(limit int) ([]MergeRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT id, agent_id, branch, operation, success, message, conflict_files, merged_commits, occurred_at
		FROM merges ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list merges: %w", err)
	}
	defer rows.Close()

	var records []MergeRecord
	for rows.Next() {
		var m MergeRecord
		var op string
		var success int
		var conflicts string
		var occurredAt string
		if err := rows.Scan(&m.ID, &m.AgentID, &m.Branch, &op, &success,
			&m.Message, &conflicts, &m.MergedCommits, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan merge: %w", err)
		}
		m.Operation = MergeOperation(op)
		m.Success = success != 0
		if err := json.Unmarshal([]byte(conflicts), &m.ConflictFiles); err != nil {
			m.ConflictFiles = nil
		}
		m.OccurredAt, _ = parseTime(occurredAt)
		records = append(records, m)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
