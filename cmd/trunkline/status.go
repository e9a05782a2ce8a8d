package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [agent-id]",
	Short: "Show the trunk's or an agent workspace's working-tree status",
	Long: `With no arguments, report whether the trunk's working tree is clean.
Run this after an interrupted merge: a dirty trunk means the last merge
did not complete and needs manual inspection before any further merges.

With an agent id, report that agent's workspace status instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if len(args) == 0 {
		status, err := env.engine.TrunkStatus()
		if err != nil {
			return fmt.Errorf("trunk status: %w", err)
		}
		if status == "" {
			printStatus("✓", "trunk is clean", color.FgGreen)
			return nil
		}
		printStatus("✗", "trunk has uncommitted changes", color.FgRed)
		fmt.Println(status)
		return nil
	}

	status, err := env.engine.BranchStatus(args[0])
	if err != nil {
		return err
	}
	if status == "" {
		printStatus("✓", fmt.Sprintf("workspace %s is clean", args[0]), color.FgGreen)
		return nil
	}
	fmt.Println(status)
	return nil
}
