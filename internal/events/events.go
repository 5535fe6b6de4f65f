// Package events defines the observability events emitted by the
// orchestration engine and the emitter subscribers consume them through.
package events

import "time"

// Type represents the kind of an orchestration event.
type Type string

const (
	// TypeWaveStarted indicates a wave is about to dispatch.
	TypeWaveStarted Type = "wave_started"
	// TypeWaveCompleted indicates all calls in a wave have settled.
	TypeWaveCompleted Type = "wave_completed"
	// TypeToolStarted indicates a tool call has been dispatched.
	TypeToolStarted Type = "tool_started"
	// TypeToolCompleted indicates a tool call returned a payload.
	TypeToolCompleted Type = "tool_completed"
	// TypeToolFailed indicates a tool call errored or timed out.
	TypeToolFailed Type = "tool_failed"
	// TypeCancellationDetected indicates the scheduler observed a
	// cancelled token at a wave boundary.
	TypeCancellationDetected Type = "cancellation_detected"
	// TypeCancellationHandled indicates the cancellation bundle was built
	// and returned to the caller.
	TypeCancellationHandled Type = "cancellation_handled"
	// TypeAdaptationStarted indicates a re-planning turn began.
	TypeAdaptationStarted Type = "adaptation_started"
	// TypeAdaptationCompleted indicates a re-planning turn finished.
	TypeAdaptationCompleted Type = "adaptation_completed"
	// TypeSessionStarted indicates a user session was admitted.
	TypeSessionStarted Type = "session_started"
	// TypeSessionCancelled indicates an active session was preempted.
	TypeSessionCancelled Type = "session_cancelled"
	// TypeSessionCompleted indicates a session settled and was removed.
	TypeSessionCompleted Type = "session_completed"
)

// Event is a flat record describing one observability occurrence.
// Payloads carry ids, names, durations, and counts only; consumers must
// never be able to fail the orchestration path through them.
type Event struct {
	// Type is the kind of event.
	Type Type
	// RunID identifies the orchestration run, if applicable.
	RunID string
	// UserKey identifies the user session, if applicable.
	UserKey string
	// CallID is the tool-call ID, for per-tool events.
	CallID string
	// Tool is the tool name, for per-tool events.
	Tool string
	// Wave is the wave index, for wave and cancellation events.
	Wave int
	// Count is a generic counter (calls in a wave, results gathered).
	Count int
	// Message provides additional context about the event.
	Message string
	// Duration is the elapsed time, for completion events.
	Duration time.Duration
	// Timestamp is when the event occurred.
	Timestamp time.Time
}
