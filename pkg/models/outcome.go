package models

// OutcomeKind identifies how a scheduled run terminated. Cancellation is a
// first-class termination, distinct from both success and failure.
type OutcomeKind string

const (
	// OutcomeOK indicates the run completed normally.
	OutcomeOK OutcomeKind = "ok"
	// OutcomeCancelled indicates the run was cancelled at a wave boundary
	// and carries whatever partial results were gathered.
	OutcomeCancelled OutcomeKind = "cancelled"
	// OutcomeFatal indicates a structural failure (cycle or dangling
	// dependency) that made the plan unusable.
	OutcomeFatal OutcomeKind = "fatal"
)

// ActionCancelled is the action name surfaced to callers when a run was
// preempted before completing.
const ActionCancelled = "operation_cancelled"

// Outcome is the explicit result of a scheduled run or a full orchestrator
// turn. Every call site handles all three variants; nothing is thrown.
type Outcome struct {
	// Kind selects the variant.
	Kind OutcomeKind `json:"kind"`
	// Action is the planned action for OK outcomes, or ActionCancelled.
	Action string `json:"action,omitempty"`
	// Results maps tool-call ID to its result. For cancelled outcomes this
	// holds the results of all fully completed waves.
	Results map[string]ToolResult `json:"results,omitempty"`
	// Reason is the cancellation reason, if any.
	Reason string `json:"reason,omitempty"`
	// WaveIndex is the index of the wave that was about to start when
	// cancellation was observed.
	WaveIndex int `json:"wave_index,omitempty"`
	// Err is the structural error for fatal outcomes.
	Err error `json:"-"`
	// Message is a user-facing note (e.g. the resend instruction on
	// cancellation).
	Message string `json:"message,omitempty"`
}

// OK builds a successful outcome.
func OK(action string, results map[string]ToolResult) Outcome {
	return Outcome{Kind: OutcomeOK, Action: action, Results: results}
}

// Cancelled builds a cancellation outcome carrying partial results.
func Cancelled(partial map[string]ToolResult, reason string, waveIndex int) Outcome {
	return Outcome{
		Kind:      OutcomeCancelled,
		Action:    ActionCancelled,
		Results:   partial,
		Reason:    reason,
		WaveIndex: waveIndex,
	}
}

// Fatal builds a fatal outcome from a structural error.
func Fatal(err error) Outcome {
	return Outcome{Kind: OutcomeFatal, Err: err}
}

// IsCancelled returns true for the cancelled variant.
func (o Outcome) IsCancelled() bool {
	return o.Kind == OutcomeCancelled
}

// IsFatal returns true for the fatal variant.
func (o Outcome) IsFatal() bool {
	return o.Kind == OutcomeFatal
}
