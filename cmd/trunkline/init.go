package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trunkline/internal/config"
)

var initNoConfig bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the trunk repository",
	Long: `Initialize the shared trunk repository and write a starter
project configuration.

This command:
  - Verifies git is installed
  - Creates the trunk repository with 'main' as the integration branch
    and one empty root commit, so every future branch shares an ancestor
  - Writes a .trunkline.yaml template into the current directory

Running init against an existing trunk is a no-op.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initNoConfig, "no-config", false, "Skip writing .trunkline.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := checkGitInstalled(); err != nil {
		printStatus("✗", "Git not found", color.FgRed)
		return err
	}
	printStatus("✓", "Git found", color.FgGreen)

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	existed := env.trunk.Exists()
	if err := env.trunk.Init(); err != nil {
		printStatus("✗", "Trunk initialization failed", color.FgRed)
		return err
	}
	if existed {
		printStatus("✓", "Trunk repository exists", color.FgGreen)
	} else {
		printStatus("✓", fmt.Sprintf("Initialized trunk at %s", env.trunk.Path()), color.FgGreen)
	}

	if !initNoConfig {
		if err := writeProjectConfig(); err != nil {
			return err
		}
	}

	fmt.Printf("\n%s Trunkline initialization complete!\n\n", color.GreenString("✓"))
	fmt.Println("Next steps:")
	fmt.Println("  trunkline create <agent-id>   # give an agent a workspace")
	fmt.Println("  trunkline merge <agent-id>    # land its work on the trunk")
	fmt.Println("  trunkline --help              # full command list")
	return nil
}

// checkGitInstalled checks if git is installed
func checkGitInstalled() error {
	_, err := exec.LookPath("git")
	if err != nil {
		return fmt.Errorf("git not found in PATH\n\n" +
			"Trunkline orchestrates git worktrees and needs the git CLI.\n\n" +
			"Install git with:\n" +
			"  - macOS: brew install git\n" +
			"  - Ubuntu/Debian: sudo apt-get install git\n" +
			"  - Other: https://git-scm.com/downloads")
	}
	return nil
}

// writeProjectConfig drops a starter .trunkline.yaml unless one exists.
func writeProjectConfig() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	path := filepath.Join(cwd, config.ProjectConfigName)
	if _, err := os.Stat(path); err == nil {
		printStatus("✓", config.ProjectConfigName+" already present", color.FgGreen)
		return nil
	}

	template, err := config.TemplateYAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, template, 0644); err != nil {
		return fmt.Errorf("write %s: %w", config.ProjectConfigName, err)
	}
	printStatus("✓", "Created "+config.ProjectConfigName, color.FgGreen)
	return nil
}
