package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/guestflow/concierge/internal/cancel"
	"github.com/guestflow/concierge/pkg/models"
)

var askUser string

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Handle one guest message and print the result",
	Long: `Run a single guest message through the full plan, execute, and
adapt loop, then print the gathered results.

Examples:
  concierge ask "any rooms next weekend for 2?"
  concierge ask --user room-412 "what time is breakfast?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askUser, "user", "guest", "guest key the request belongs to")
}

func runAsk(cmd *cobra.Command, args []string) error {
	message := strings.Join(args, " ")
	ctx := context.Background()

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	outcome := app.Sessions.Handle(ctx, askUser, message, func(runCtx context.Context, token *cancel.Token) models.Outcome {
		return app.Orchestrator.Run(runCtx, message, nil, token)
	})

	printOutcome(outcome)
	return nil
}

func printOutcome(outcome models.Outcome) {
	switch outcome.Kind {
	case models.OutcomeFatal:
		fmt.Printf("%s %v\n", color.RedString("✗"), outcome.Err)
		return
	case models.OutcomeCancelled:
		fmt.Printf("%s %s\n", color.YellowString("⚠"), outcome.Message)
		if len(outcome.Results) > 0 {
			fmt.Printf("  gathered %d result(s) before stopping\n", len(outcome.Results))
		}
		return
	}

	if outcome.Message != "" {
		fmt.Println(outcome.Message)
	}
	if outcome.Action != "" {
		fmt.Printf("%s %s\n", color.GreenString("✓"), outcome.Action)
	}

	ids := make([]string, 0, len(outcome.Results))
	for id := range outcome.Results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		res := outcome.Results[id]
		switch res.Kind {
		case models.ResultError:
			fmt.Printf("  %s: %s\n", id, color.RedString(res.Err))
		case models.ResultScalar:
			fmt.Printf("  %s: %v\n", id, res.Value)
		case models.ResultListing:
			fmt.Printf("  %s: %d option(s)\n", id, len(res.Options))
			for _, opt := range res.Options {
				fmt.Printf("    - %s\n", formatFields(opt))
			}
		case models.ResultStructured:
			fmt.Printf("  %s: %s\n", id, formatFields(res.Fields))
		}
	}
}

func formatFields(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}
