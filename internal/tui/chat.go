// Package tui implements the interactive chat terminal for the concierge.
// It renders a scrolling transcript with live progress lines sourced from
// the orchestrator's event stream.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/guestflow/concierge/internal/events"
	"github.com/guestflow/concierge/pkg/models"
)

// SubmitFunc handles one guest message and returns the final outcome.
// It is invoked off the UI goroutine.
type SubmitFunc func(ctx context.Context, message string) models.Outcome

// outcomeMsg carries a finished run back into the UI loop.
type outcomeMsg struct {
	outcome models.Outcome
}

// eventMsg carries one orchestrator event into the UI loop.
type eventMsg struct {
	event events.Event
}

// eventsClosedMsg signals the event stream has ended.
type eventsClosedMsg struct{}

var (
	guestStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	replyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	inputStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// ChatApp is the bubbletea model for the chat session.
type ChatApp struct {
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	submit SubmitFunc
	events <-chan events.Event

	lines    []string
	busy     bool
	ready    bool
	quitting bool
	width    int
	height   int
}

// NewChatApp creates the chat model. The events channel may be nil, in
// which case no progress lines are shown.
func NewChatApp(submit SubmitFunc, eventStream <-chan events.Event) *ChatApp {
	ti := textinput.New()
	ti.Placeholder = "Ask the concierge and press Enter..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &ChatApp{
		input:   ti,
		spinner: sp,
		submit:  submit,
		events:  eventStream,
		lines:   []string{progressStyle.Render("Connected. How can I help with your stay?")},
	}
}

// Init implements tea.Model.
func (a *ChatApp) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, a.spinner.Tick}
	if a.events != nil {
		cmds = append(cmds, a.waitForEvent())
	}
	return tea.Batch(cmds...)
}

// waitForEvent blocks on the event stream and forwards one event.
func (a *ChatApp) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-a.events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{event: ev}
	}
}

// Update implements tea.Model.
func (a *ChatApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			a.quitting = true
			return a, tea.Quit
		case "enter":
			text := strings.TrimSpace(a.input.Value())
			if text == "" || a.submit == nil {
				return a, nil
			}
			a.input.Reset()
			a.appendLine(guestStyle.Render("You: ") + text)
			a.busy = true
			return a, tea.Batch(a.spinner.Tick, func() tea.Msg {
				return outcomeMsg{outcome: a.submit(context.Background(), text)}
			})
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()

	case outcomeMsg:
		a.busy = false
		for _, line := range renderOutcome(msg.outcome) {
			a.appendLine(line)
		}

	case eventMsg:
		if line, ok := progressLine(msg.event); ok {
			a.appendLine(progressStyle.Render(line))
		}
		cmds = append(cmds, a.waitForEvent())

	case eventsClosedMsg:
		// Stream ended, keep the UI alive without a subscription.

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var inputCmd tea.Cmd
	a.input, inputCmd = a.input.Update(msg)
	cmds = append(cmds, inputCmd)

	var vpCmd tea.Cmd
	a.viewport, vpCmd = a.viewport.Update(msg)
	cmds = append(cmds, vpCmd)

	return a, tea.Batch(cmds...)
}

func (a *ChatApp) resize() {
	inputHeight := 3
	headerHeight := 2
	vpHeight := a.height - inputHeight - headerHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !a.ready {
		a.viewport = viewport.New(a.width, vpHeight)
		a.ready = true
	} else {
		a.viewport.Width = a.width
		a.viewport.Height = vpHeight
	}
	a.input.Width = a.width - 6
	a.refreshViewport()
}

func (a *ChatApp) appendLine(line string) {
	a.lines = append(a.lines, line)
	a.refreshViewport()
}

func (a *ChatApp) refreshViewport() {
	if !a.ready {
		return
	}
	a.viewport.SetContent(strings.Join(a.lines, "\n"))
	a.viewport.GotoBottom()
}

// View implements tea.Model.
func (a *ChatApp) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}
	if !a.ready {
		return "Starting..."
	}

	header := headerStyle.Render("Concierge")
	if a.busy {
		header += "  " + a.spinner.View() + progressStyle.Render(" working...")
	}

	input := inputStyle.Width(a.width - 2).Render(a.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, header, a.viewport.View(), input)
}

// progressLine maps an orchestrator event to a transcript progress line.
// Most event types stay off-screen; the transcript only shows the guest's
// view of progress.
func progressLine(ev events.Event) (string, bool) {
	switch ev.Type {
	case events.TypeWaveStarted:
		return fmt.Sprintf("  checking %d thing(s)...", ev.Count), true
	case events.TypeToolFailed:
		return fmt.Sprintf("  %s did not work out", ev.Tool), true
	case events.TypeAdaptationStarted:
		return "  first pass came up short, trying alternatives...", true
	case events.TypeSessionCancelled:
		return "  dropping the previous request...", true
	default:
		return "", false
	}
}
