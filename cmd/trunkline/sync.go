package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trunkline/internal/state"
	"trunkline/internal/workspace"
)

var syncCmd = &cobra.Command{
	Use:   "sync <agent-id>",
	Short: "Rebase an agent's workspace onto the trunk",
	Long: `Pull the trunk's latest state into one agent's branch without
finalizing anything: pending edits are auto-committed, then the branch
is rebased onto the trunk's tip inside the agent's own worktree.

On conflict the rebase is aborted and the workspace is left exactly as
it was.`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	agentID := args[0]

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	outcome, err := env.engine.UpdateWorktree(agentID)
	if err != nil {
		return err
	}

	if db, err := env.openStore(); err == nil {
		defer db.Close()
		_ = db.RecordMerge(&state.MergeRecord{
			AgentID:       agentID,
			Branch:        workspace.BranchName(agentID),
			Operation:     state.OpSync,
			Success:       outcome.Success,
			Message:       outcome.Message,
			ConflictFiles: outcome.ConflictFiles,
		})
	}

	if !outcome.Success {
		printStatus("✗", outcome.Message, color.FgRed)
		for _, path := range outcome.ConflictFiles {
			fmt.Printf("  conflict: %s\n", path)
		}
		return fmt.Errorf("sync failed for %s", agentID)
	}

	printStatus("✓", outcome.Message, color.FgGreen)
	return nil
}
