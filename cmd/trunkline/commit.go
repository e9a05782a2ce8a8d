package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var commitMessage string

var commitCmd = &cobra.Command{
	Use:   "commit <agent-id>",
	Short: "Commit everything pending in an agent's workspace",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommit,
}

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "trunkline: checkpoint agent work", "commit message")
}

func runCommit(cmd *cobra.Command, args []string) error {
	agentID := args[0]

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	ws, err := env.workspaces.Get(agentID)
	if err != nil {
		return err
	}
	if ws == nil {
		return fmt.Errorf("no workspace for %s", agentID)
	}

	committed, err := env.engine.Commit(ws.Path, commitMessage)
	if err != nil {
		return err
	}
	if !committed {
		printStatus("-", "nothing to commit", color.FgYellow)
		return nil
	}
	printStatus("✓", "committed pending changes on "+ws.BranchName, color.FgGreen)
	return nil
}
