package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/guestflow/concierge/internal/orchestrator"
	"github.com/guestflow/concierge/internal/session"
	"github.com/guestflow/concierge/internal/tools"
	"github.com/guestflow/concierge/pkg/models"
)

// ClaudePlanner produces tool-call DAGs with the Anthropic API. It
// implements orchestrator.Planner and session.FallbackClassifier.
type ClaudePlanner struct {
	client   *Client
	registry tools.Registry
}

// NewClaudePlanner creates a planner describing the given registry's tools
// to the model.
func NewClaudePlanner(client *Client, registry tools.Registry) *ClaudePlanner {
	return &ClaudePlanner{client: client, registry: registry}
}

// plannedCall mirrors the JSON shape the model returns per tool call.
type plannedCall struct {
	ID    string         `json:"id"`
	Tool  string         `json:"tool"`
	Args  map[string]any `json:"args"`
	Needs []string       `json:"needs"`
}

// plannedResponse mirrors the JSON shape of a full planning response.
type plannedResponse struct {
	Action    string         `json:"action"`
	Slots     map[string]any `json:"slots"`
	Tools     []plannedCall  `json:"tools"`
	Reasoning string         `json:"reasoning"`
}

// Plan asks the model for the initial tool DAG for a user message.
func (p *ClaudePlanner) Plan(ctx context.Context, message string, runContext map[string]any) (*models.Plan, error) {
	prompt := fmt.Sprintf(planPromptTemplate, p.toolCatalog(), message)

	var resp plannedResponse
	if err := p.client.CompleteJSON(ctx, planSystemPrompt, prompt, &resp); err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	plan := &models.Plan{
		Action:    resp.Action,
		Slots:     resp.Slots,
		Reasoning: resp.Reasoning,
		Tools:     convertCalls(resp.Tools),
	}
	return plan, nil
}

// Adapt asks the model for additional tool calls given the accumulated
// results and validator feedback. An empty slice means "nothing more to
// try"; the orchestrator filters duplicates independently regardless of
// what the model proposes.
func (p *ClaudePlanner) Adapt(ctx context.Context, req orchestrator.AdaptRequest) ([]models.ToolCall, error) {
	resultsJSON, err := json.MarshalIndent(req.Results, "", "  ")
	if err != nil {
		resultsJSON = []byte("{}")
	}

	prompt := fmt.Sprintf(adaptPromptTemplate,
		p.toolCatalog(),
		req.Message,
		req.OriginalPlan.Action,
		string(resultsJSON),
		req.Feedback,
		strings.Join(req.AttemptedSignatures, "\n"),
	)

	var resp struct {
		Tools []plannedCall `json:"tools"`
	}
	if err := p.client.CompleteJSON(ctx, planSystemPrompt, prompt, &resp); err != nil {
		return nil, fmt.Errorf("adapt: %w", err)
	}
	return convertCalls(resp.Tools), nil
}

// ClassifyIntent is the LLM fallback tier of the session manager's intent
// classifier.
func (p *ClaudePlanner) ClassifyIntent(ctx context.Context, message string) (session.Intent, error) {
	prompt := fmt.Sprintf(intentPromptTemplate, message)

	answer, err := p.client.Complete(ctx, "", prompt)
	if err != nil {
		return session.IntentUnknown, fmt.Errorf("classify intent: %w", err)
	}

	switch strings.TrimSpace(strings.ToLower(answer)) {
	case "status_check":
		return session.IntentStatusCheck, nil
	case "new_request":
		return session.IntentNewRequest, nil
	case "clarification":
		return session.IntentClarification, nil
	default:
		return session.IntentUnknown, nil
	}
}

// toolCatalog renders the registry's tools and schemas for the prompt.
func (p *ClaudePlanner) toolCatalog() string {
	var b strings.Builder
	for _, name := range p.registry.Names() {
		tool, ok := p.registry.Lookup(name)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- %s\n", name)
		schema := tool.Schema()
		args := make([]string, 0, len(schema))
		for arg := range schema {
			args = append(args, arg)
		}
		sort.Strings(args)
		for _, arg := range args {
			spec := schema[arg]
			required := "optional"
			if spec.Required {
				required = "required"
			}
			fmt.Fprintf(&b, "    %s (%s, %s): %s\n", arg, spec.Type, required, spec.Description)
		}
	}
	return b.String()
}

func convertCalls(planned []plannedCall) []models.ToolCall {
	calls := make([]models.ToolCall, 0, len(planned))
	for _, pc := range planned {
		calls = append(calls, models.ToolCall{
			ID:    pc.ID,
			Tool:  pc.Tool,
			Args:  pc.Args,
			Needs: pc.Needs,
		})
	}
	return calls
}
