package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trunkline/internal/state"
)

var createCmd = &cobra.Command{
	Use:   "create [agent-id]",
	Short: "Create an isolated workspace for an agent",
	Long: `Create a worktree and branch for an agent, rooted at the trunk's
current tip. The branch is named worker/<agent-id> and the directory
lives under the configured worktrees root.

With no agent-id, a UUID is generated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	agentID := ""
	if len(args) > 0 {
		agentID = args[0]
	}

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	ws, err := env.workspaces.Create(agentID)
	if err != nil {
		return err
	}

	if db, err := env.openStore(); err == nil {
		defer db.Close()
		_ = db.RecordWorkspace(&state.WorkspaceRecord{
			AgentID:   ws.AgentID,
			Branch:    ws.BranchName,
			Path:      ws.Path,
			CreatedAt: ws.CreatedAt,
		})
	}

	printStatus("✓", fmt.Sprintf("Created workspace for %s", ws.AgentID), color.FgGreen)
	fmt.Printf("  Branch:    %s\n", ws.BranchName)
	fmt.Printf("  Directory: %s\n", ws.Path)
	return nil
}
