package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/guestflow/concierge/internal/cancel"
	"github.com/guestflow/concierge/internal/tui"
	"github.com/guestflow/concierge/pkg/models"
)

var chatUser string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat session",
	Long: `Start an interactive chat session with the concierge.

Each message runs through the full plan, execute, and adapt loop while
progress shows in the transcript. Sending a new message while one is in
flight supersedes it; asking "how is it going?" does not.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatUser, "user", "guest", "guest key the session belongs to")
}

func runChat() error {
	ctx := context.Background()

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	userKey := chatUser
	if userKey == "" {
		userKey = "guest"
	}

	submit := func(runCtx context.Context, message string) models.Outcome {
		return app.Sessions.Handle(runCtx, userKey, message, func(innerCtx context.Context, token *cancel.Token) models.Outcome {
			return app.Orchestrator.Run(innerCtx, message, nil, token)
		})
	}

	model := tui.NewChatApp(submit, app.Emitter.Events())
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chat session: %w", err)
	}
	return nil
}
