package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cleanupDryRun  bool
	cleanupVerbose bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove orphaned worktree directories",
	Long: `Scan the worktrees root for directories that git no longer tracks,
typically left behind by a crash mid-destroy, and remove them.`,
	Args: cobra.NoArgs,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "list orphans without removing them")
	cleanupCmd.Flags().BoolVarP(&cleanupVerbose, "verbose", "v", false, "print each removed directory")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if cleanupDryRun {
		orphans, err := env.workspaces.Orphans()
		if err != nil {
			return fmt.Errorf("scan orphans: %w", err)
		}
		if len(orphans) == 0 {
			printStatus("✓", "no orphaned worktrees", color.FgGreen)
			return nil
		}
		for _, path := range orphans {
			fmt.Printf("would remove %s\n", path)
		}
		return nil
	}

	var verbose func(string)
	if cleanupVerbose {
		verbose = func(path string) { fmt.Printf("removed %s\n", path) }
	}
	removed, err := env.workspaces.CleanupOrphans(verbose)
	if err != nil {
		return fmt.Errorf("cleanup orphans: %w", err)
	}
	printStatus("✓", fmt.Sprintf("removed %d orphaned worktree(s)", removed), color.FgGreen)
	return nil
}
