package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/guestflow/concierge/internal/config"
	"github.com/guestflow/concierge/internal/state"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [user]",
	Short: "Show recent runs for a guest",
	Long: `Display recent run records from the local history database.

Shows the message, resolved action, outcome, and tool count per run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	userKey := "guest"
	if len(args) > 0 {
		userKey = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dbPath := cfg.Storage.DBPath
	if dbPath == "" {
		dbPath = state.DefaultDBPath()
	}
	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open state db: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate state db: %w", err)
	}

	runs, err := db.RecentRuns(context.Background(), userKey, historyLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if len(runs) == 0 {
		fmt.Printf("No runs recorded for %s.\n", userKey)
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %-10s %-24s %d tool(s) in %s\n",
			run.StartedAt.Format(time.DateTime),
			run.Outcome,
			run.Action,
			run.ToolCount,
			run.Duration.Round(time.Millisecond))
		fmt.Printf("    %q\n", run.Message)
		if run.Reason != "" {
			fmt.Printf("    reason: %s\n", run.Reason)
		}
	}
	return nil
}
