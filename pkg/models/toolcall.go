// Package models defines the shared domain types for the concierge engine.
package models

// ToolCall represents one external, named operation in a plan.
// It is created by the planner and immutable once scheduled.
type ToolCall struct {
	// ID uniquely identifies this call within its plan.
	ID string `json:"id"`
	// Tool is the registry key of the tool to invoke.
	Tool string `json:"tool"`
	// Args holds the declared argument values. A nil value marks an
	// argument that should be filled from a dependency's result.
	Args map[string]any `json:"args,omitempty"`
	// Needs lists the IDs of calls whose results this call depends on,
	// in declaration order.
	Needs []string `json:"needs,omitempty"`
}

// Plan is the planner's answer to a user message: an intended action,
// extracted slots, and a DAG of tool calls to execute.
type Plan struct {
	// Action names the high-level intent (e.g. "check_availability").
	Action string `json:"action"`
	// Slots holds values extracted from the user message.
	Slots map[string]any `json:"slots,omitempty"`
	// Tools is the dependency graph of calls to execute.
	Tools []ToolCall `json:"tools"`
	// Reasoning is the planner's free-text rationale.
	Reasoning string `json:"reasoning,omitempty"`
}

// CallIDs returns the IDs of all tool calls in the plan.
func (p *Plan) CallIDs() []string {
	ids := make([]string, 0, len(p.Tools))
	for _, tc := range p.Tools {
		ids = append(ids, tc.ID)
	}
	return ids
}
