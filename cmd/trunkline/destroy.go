package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var destroyCmd = &cobra.Command{
	Use:   "destroy <agent-id>",
	Short: "Destroy an agent's workspace",
	Long: `Remove an agent's worktree directory (discarding uncommitted
edits) and delete its branch.

Destroying an already-destroyed or never-created workspace is a no-op,
not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runDestroy,
}

func runDestroy(cmd *cobra.Command, args []string) error {
	agentID := args[0]

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.workspaces.Destroy(agentID); err != nil {
		return err
	}

	if db, err := env.openStore(); err == nil {
		defer db.Close()
		_ = db.MarkDestroyed(agentID)
	}

	printStatus("✓", fmt.Sprintf("Destroyed workspace for %s", agentID), color.FgGreen)
	return nil
}
