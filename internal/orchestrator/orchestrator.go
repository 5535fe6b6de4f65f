// Package orchestrator drives the adaptive plan → schedule → validate →
// re-plan loop for one user turn, bounded by adaptation-turn and
// tool-volume budgets.
package orchestrator

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/guestflow/concierge/internal/cancel"
	"github.com/guestflow/concierge/internal/events"
	"github.com/guestflow/concierge/internal/validation"
	"github.com/guestflow/concierge/pkg/models"
)

// DefaultMaxAdaptationTurns caps re-planning cycles per run.
const DefaultMaxAdaptationTurns = 1

// DefaultMaxTotalTools caps total tool calls per run.
const DefaultMaxTotalTools = 10

// CancelledUserMessage is surfaced to the user when a run is preempted.
const CancelledUserMessage = "I stopped working on your previous request. If you still want it handled, please send it again."

// AdaptRequest carries everything the planner needs for a re-planning
// turn: the accumulated results, the validator's feedback, and the
// attempted signatures (the loop enforces de-duplication independently of
// planner compliance).
type AdaptRequest struct {
	// Message is the original user message.
	Message string
	// OriginalPlan is the plan from the initial turn.
	OriginalPlan *models.Plan
	// Results maps call ID to result for everything executed so far.
	Results map[string]models.ToolResult
	// Feedback is the validator's re-planning context.
	Feedback string
	// AttemptedSignatures lists de-duplication keys already attempted.
	AttemptedSignatures []string
}

// Planner is the external planning collaborator.
type Planner interface {
	// Plan produces the initial tool DAG for a user message.
	Plan(ctx context.Context, message string, runContext map[string]any) (*models.Plan, error)
	// Adapt proposes additional tool calls given accumulated results and
	// feedback. An empty slice signals "nothing more to try".
	Adapt(ctx context.Context, req AdaptRequest) ([]models.ToolCall, error)
}

// Scheduler executes a tool-call DAG. Satisfied by *runtime.Runtime.
type Scheduler interface {
	Execute(ctx context.Context, calls []models.ToolCall, runContext map[string]any, token *cancel.Token) models.Outcome
}

// RoundValidator judges whether a round of results is sufficient.
// Satisfied by *validation.Validator.
type RoundValidator interface {
	Analyze(userMessage, plannedAction string, calls []models.ToolCall, results map[string]models.ToolResult) validation.Report
}

// Orchestrator runs the bounded adaptive feedback loop.
type Orchestrator struct {
	planner   Planner
	scheduler Scheduler
	validator RoundValidator
	emitter   *events.Emitter
	maxTurns  int
	maxTools  int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithValidator overrides the round validator.
func WithValidator(v RoundValidator) Option {
	return func(o *Orchestrator) { o.validator = v }
}

// WithEmitter sets the observability emitter.
func WithEmitter(e *events.Emitter) Option {
	return func(o *Orchestrator) { o.emitter = e }
}

// WithMaxAdaptationTurns overrides the re-planning cap.
func WithMaxAdaptationTurns(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.maxTurns = n
		}
	}
}

// WithMaxTotalTools overrides the per-run tool-volume cap.
func WithMaxTotalTools(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxTools = n
		}
	}
}

// New creates an Orchestrator around a planner and scheduler.
func New(planner Planner, scheduler Scheduler, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		planner:   planner,
		scheduler: scheduler,
		validator: validation.NewValidator(),
		maxTurns:  DefaultMaxAdaptationTurns,
		maxTools:  DefaultMaxTotalTools,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one user turn: plan, schedule, validate, and re-plan up to
// the configured bounds. Adaptation is strictly best-effort: a planner or
// validator failure, an exhausted budget, or an all-duplicate proposal all
// degrade to "return the best results gathered", never to a run failure.
// Cancellation surfaces as a Cancelled outcome carrying partial results.
func (o *Orchestrator) Run(ctx context.Context, message string, runContext map[string]any, token *cancel.Token) models.Outcome {
	runID := uuid.New().String()[:8]

	plan, err := o.planner.Plan(ctx, message, runContext)
	if err != nil {
		// Collaborator failure: the user still gets an answer, just an
		// empty one, rather than a hard failure.
		log.Printf("[orchestrator] run %s: planner unavailable: %v", runID, err)
		return models.Outcome{
			Kind:    models.OutcomeOK,
			Action:  "planning_unavailable",
			Results: map[string]models.ToolResult{},
			Message: "I could not work out a plan for that request. Please try rephrasing it.",
		}
	}

	outcome := o.scheduler.Execute(ctx, plan.Tools, runContext, token)
	switch outcome.Kind {
	case models.OutcomeFatal:
		return outcome
	case models.OutcomeCancelled:
		return o.cancelBundle(runID, outcome.Results, outcome.Reason, outcome.WaveIndex)
	}

	acc := outcome.Results
	budget := NewToolBudget(o.maxTools)
	budget.Spend(len(plan.Tools))

	attempted := make(signatureSet)
	for _, tc := range plan.Tools {
		attempted.add(Signature(tc))
	}

	executed := append([]models.ToolCall(nil), plan.Tools...)

	for turn := 0; ; {
		report := o.validator.Analyze(message, plan.Action, executed, acc)
		if !report.NeedsAdaptation || turn >= o.maxTurns || budget.Check() == BudgetExhausted {
			break
		}

		if token != nil && token.IsCancelled() {
			return o.cancelBundle(runID, acc, token.Reason(), 0)
		}

		turn++
		o.emit(events.Event{Type: events.TypeAdaptationStarted, RunID: runID, Count: turn})
		turnStart := time.Now()

		batch := o.adaptOnce(ctx, runID, message, plan, acc, report.Feedback, attempted, budget)
		if len(batch) == 0 {
			o.emit(events.Event{Type: events.TypeAdaptationCompleted, RunID: runID, Count: 0, Duration: time.Since(turnStart)})
			break
		}

		if token != nil && token.IsCancelled() {
			return o.cancelBundle(runID, acc, token.Reason(), 0)
		}

		batchOutcome := o.scheduler.Execute(ctx, batch, runContext, token)
		if batchOutcome.Kind == models.OutcomeCancelled {
			mergeResults(acc, batchOutcome.Results)
			return o.cancelBundle(runID, acc, batchOutcome.Reason, batchOutcome.WaveIndex)
		}
		if batchOutcome.Kind == models.OutcomeFatal {
			// The adapted plan was structurally broken; keep what we have.
			log.Printf("[orchestrator] run %s: adapted batch unusable: %v", runID, batchOutcome.Err)
			o.emit(events.Event{Type: events.TypeAdaptationCompleted, RunID: runID, Count: 0, Duration: time.Since(turnStart)})
			break
		}

		mergeResults(acc, batchOutcome.Results)
		budget.Spend(len(batch))
		executed = append(executed, batch...)
		o.emit(events.Event{Type: events.TypeAdaptationCompleted, RunID: runID, Count: len(batch), Duration: time.Since(turnStart)})
	}

	return models.OK(plan.Action, acc)
}

// adaptOnce asks the planner for an adapted batch and filters it against
// the attempted-signature set and the remaining budget. A planner failure
// returns an empty batch (adaptation exhaustion, never a run failure).
func (o *Orchestrator) adaptOnce(ctx context.Context, runID, message string, plan *models.Plan, acc map[string]models.ToolResult, feedback string, attempted signatureSet, budget *ToolBudget) []models.ToolCall {
	proposed, err := o.planner.Adapt(ctx, AdaptRequest{
		Message:             message,
		OriginalPlan:        plan,
		Results:             acc,
		Feedback:            feedback,
		AttemptedSignatures: attempted.list(),
	})
	if err != nil {
		log.Printf("[orchestrator] run %s: re-planning failed, keeping gathered results: %v", runID, err)
		return nil
	}

	var batch []models.ToolCall
	for _, tc := range proposed {
		if len(batch) >= budget.Remaining() {
			debugLogf("[orchestrator] run %s: dropping %s, tool budget reached", runID, tc.ID)
			break
		}
		if !attempted.add(Signature(tc)) {
			debugLogf("[orchestrator] run %s: dropping %s, duplicate of attempted call", runID, tc.ID)
			continue
		}
		if _, exists := acc[tc.ID]; exists {
			// IDs are unique for the lifetime of a run; a re-used ID
			// would silently shadow an existing result.
			debugLogf("[orchestrator] run %s: dropping %s, id already present", runID, tc.ID)
			continue
		}
		batch = append(batch, tc)
	}
	return batch
}

// cancelBundle builds the user-facing cancellation outcome.
func (o *Orchestrator) cancelBundle(runID string, partial map[string]models.ToolResult, reason string, waveIndex int) models.Outcome {
	o.emit(events.Event{
		Type:    events.TypeCancellationHandled,
		RunID:   runID,
		Wave:    waveIndex,
		Count:   len(partial),
		Message: reason,
	})
	out := models.Cancelled(partial, reason, waveIndex)
	out.Message = CancelledUserMessage
	return out
}

// mergeResults adds new entries into acc without ever overwriting an
// existing ID.
func mergeResults(acc, fresh map[string]models.ToolResult) {
	for id, res := range fresh {
		if _, exists := acc[id]; exists {
			continue
		}
		acc[id] = res
	}
}

func (o *Orchestrator) emit(event events.Event) {
	if o.emitter != nil {
		o.emitter.Emit(event)
	}
}
