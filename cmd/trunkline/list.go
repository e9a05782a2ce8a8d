package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listAll bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List active agent workspaces",
	Long: `Print every live agent workspace with its branch, how far it has
diverged from the trunk, and where its worktree lives on disk.

With --all, print the registry's full workspace history instead,
destroyed workspaces included.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "include destroyed workspaces from the registry")
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if listAll {
		return listRegistry(env)
	}

	workspaces, err := env.workspaces.List()
	if err != nil {
		return fmt.Errorf("list workspaces: %w", err)
	}

	if len(workspaces) == 0 {
		fmt.Println("No active workspaces.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "AGENT\tBRANCH\tAHEAD\tBEHIND\tPATH")
	for _, ws := range workspaces {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			ws.AgentID, ws.BranchName, ws.Ahead, ws.Behind, ws.Path)
	}
	return w.Flush()
}

func listRegistry(e *env) error {
	db, err := e.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.AllWorkspaces()
	if err != nil {
		return fmt.Errorf("list registry: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No recorded workspaces.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "AGENT\tBRANCH\tCREATED\tDESTROYED")
	for _, rec := range records {
		destroyed := "-"
		if rec.DestroyedAt != nil {
			destroyed = rec.DestroyedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			rec.AgentID, rec.Branch, rec.CreatedAt.Format("2006-01-02 15:04:05"), destroyed)
	}
	return w.Flush()
}
