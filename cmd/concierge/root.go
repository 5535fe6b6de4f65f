package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "concierge",
	Short: "Conversational hotel concierge",
	Long: `Concierge turns guest messages into plans of tool calls, runs them
in dependency-ordered parallel waves, and adapts when results come up
short.

With no arguments, launches an interactive chat session.

Core capabilities:
- Plans availability checks, FAQ lookups, and date resolution per message
- Runs independent tool calls concurrently, dependent ones in order
- Retries with alternatives when a first pass finds nothing
- One active request per guest: a new message supersedes the old one`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
