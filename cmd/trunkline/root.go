package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trunkline",
	Short: "Multi-agent workspace orchestrator",
	Long: `Trunkline lets many autonomous worker processes edit one shared
codebase concurrently. Each agent works in an isolated git worktree on
its own branch; trunkline reconciles finished work back into a single
trunk, detecting conflicts without corrupting history.

Core operations:
- create / destroy per-agent workspaces branched off the trunk
- merge a workspace's commits into the trunk (serialized, conflict-safe)
- sync a workspace with the trunk mid-task via rebase
- inspect divergence, diffs, and workspace status`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(destroyCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}
