package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trunkline/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream file change events from all agent workspaces",
	Long: `Watch every active workspace and print a line per file change,
tagged with the owning agent. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	workspaces, err := env.workspaces.List()
	if err != nil {
		return fmt.Errorf("list workspaces: %w", err)
	}
	if len(workspaces) == 0 {
		fmt.Println("No active workspaces to watch.")
		return nil
	}

	watcher, err := watch.New()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	for _, ws := range workspaces {
		if err := watcher.Add(ws.AgentID, ws.Path); err != nil {
			return fmt.Errorf("watch %s: %w", ws.AgentID, err)
		}
	}
	printStatus("✓", fmt.Sprintf("watching %d workspace(s)", len(workspaces)), color.FgGreen)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			fmt.Printf("%s  %-8s %s: %s\n",
				ev.Time.Format("15:04:05"), ev.Op, ev.AgentID, ev.Path)
		case <-interrupt:
			return nil
		}
	}
}
