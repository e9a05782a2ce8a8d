package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trunkline/internal/state"
	"trunkline/internal/workspace"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <agent-id>",
	Short: "Merge an agent's work into the trunk",
	Long: `Finalize an agent's work: auto-commit pending edits, then merge
the workspace branch into the trunk with a merge commit.

A workspace with no commits ahead of the trunk merges as a successful
no-op. On conflict the merge is aborted, the trunk is restored to its
clean pre-merge state, and the conflicting files are listed.`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	agentID := args[0]

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	outcome, err := env.engine.MergeBranch(agentID)
	if err != nil {
		return err
	}

	if db, err := env.openStore(); err == nil {
		defer db.Close()
		_ = db.RecordMerge(&state.MergeRecord{
			AgentID:       agentID,
			Branch:        workspace.BranchName(agentID),
			Operation:     state.OpMerge,
			Success:       outcome.Success,
			Message:       outcome.Message,
			ConflictFiles: outcome.ConflictFiles,
			MergedCommits: outcome.MergedCommits,
		})
	}

	if !outcome.Success {
		printStatus("✗", outcome.Message, color.FgRed)
		for _, path := range outcome.ConflictFiles {
			fmt.Printf("  conflict: %s\n", path)
		}
		fmt.Println("\nResolve the conflicts in the workspace (e.g. after a" +
			" 'trunkline sync') and merge again.")
		return fmt.Errorf("merge failed for %s", agentID)
	}

	printStatus("✓", outcome.Message, color.FgGreen)
	return nil
}
