package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the recent merge and sync audit log",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	db, err := env.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.RecentMerges(historyLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No recorded operations.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tOP\tAGENT\tRESULT\tDETAIL")
	for _, rec := range records {
		result := "ok"
		detail := rec.Message
		if !rec.Success {
			result = "failed"
			if len(rec.ConflictFiles) > 0 {
				detail = "conflicts: " + strings.Join(rec.ConflictFiles, ", ")
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			rec.OccurredAt.Format("2006-01-02 15:04:05"), rec.Operation, rec.AgentID, result, detail)
	}
	return w.Flush()
}
