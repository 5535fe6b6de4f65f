package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/guestflow/concierge/internal/cancel"
	"github.com/guestflow/concierge/internal/events"
	"github.com/guestflow/concierge/internal/state"
	"github.com/guestflow/concierge/pkg/models"
)

// ActionStatusUpdate is the action name of the acknowledgment returned for
// status-check messages.
const ActionStatusUpdate = "status_update"

// acknowledgments rotate so repeated "still there?" messages do not read
// like a stuck bot.
var acknowledgments = []string{
	"Still on it, give me a moment.",
	"Yes, I'm working on your request right now.",
	"Almost there, checking the last few details.",
	"Still working, I'll have an answer shortly.",
}

// RunFunc is the adaptive-loop entry point the manager guards. It receives
// the fresh token created for this admission.
type RunFunc func(ctx context.Context, token *cancel.Token) models.Outcome

// Recorder persists settled runs, best-effort. Satisfied by *state.DB.
type Recorder interface {
	RecordRun(ctx context.Context, rec state.RunRecord) error
}

// ActiveSession tracks one in-flight run for a user. At most one exists
// per user key at any time.
type ActiveSession struct {
	// UserKey identifies the user.
	UserKey string
	// Token is the run's cancellation token.
	Token *cancel.Token
	// StartedAt is when the run was admitted.
	StartedAt time.Time
	// Message is the user message being processed.
	Message string
}

// Manager maps user keys to at most one in-flight run each. On a new
// message for a user with an active run, it classifies the message's
// intent to decide between "let it continue" and "cancel and restart".
type Manager struct {
	// mu is the single map-wide lock; held only for the brief
	// check/classify/cancel/create step, never across a run.
	mu       sync.Mutex
	sessions map[string]*ActiveSession
	ackIndex int

	classifier *Classifier
	emitter    *events.Emitter
	recorder   Recorder
	// notify is the caller-supplied side channel told about preemptions.
	notify func(userKey, reason string)
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithEmitter sets the observability emitter.
func WithEmitter(e *events.Emitter) ManagerOption {
	return func(m *Manager) { m.emitter = e }
}

// WithRecorder sets the run-history recorder.
func WithRecorder(r Recorder) ManagerOption {
	return func(m *Manager) { m.recorder = r }
}

// WithNotifier sets the side channel notified when a session is preempted.
func WithNotifier(fn func(userKey, reason string)) ManagerOption {
	return func(m *Manager) { m.notify = fn }
}

// NewManager creates a Manager using the given intent classifier.
func NewManager(classifier *Classifier, opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions:   make(map[string]*ActiveSession),
		classifier: classifier,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handle admits a user message. If the user has no active session, a fresh
// one is created with a new token and runFn is invoked with it. If a
// session is active, the message's intent decides: status checks return a
// rotating acknowledgment without touching the existing token; anything
// else, including unclassifiable messages, cancels the old token and
// starts over.
//
// Classification runs outside the map lock: a slow fallback stalls only
// this user's message, never admission for others. The lock covers only
// the check, the cancel, and the create steps.
//
// The session entry is removed once runFn settles, whatever the outcome,
// so a crashed run never permanently blocks its user.
func (m *Manager) Handle(ctx context.Context, userKey, message string, runFn RunFunc) models.Outcome {
	m.mu.Lock()
	existing := m.sessions[userKey]
	m.mu.Unlock()

	intent := IntentNewRequest
	if existing != nil {
		intent = m.classifier.Classify(ctx, message)
		if intent == IntentStatusCheck {
			m.mu.Lock()
			if m.sessions[userKey] == existing {
				ack := acknowledgments[m.ackIndex%len(acknowledgments)]
				m.ackIndex++
				m.mu.Unlock()
				return models.Outcome{
					Kind:    models.OutcomeOK,
					Action:  ActionStatusUpdate,
					Results: map[string]models.ToolResult{},
					Message: ack,
				}
			}
			// The run settled while the message was being classified, so
			// there is no active work to acknowledge; admit it as a fresh
			// request instead.
			m.mu.Unlock()
		}
	}

	sess := &ActiveSession{
		UserKey:   userKey,
		Token:     cancel.NewToken(),
		StartedAt: time.Now(),
		Message:   message,
	}

	m.mu.Lock()
	if current, ok := m.sessions[userKey]; ok {
		// Either the session classified against or one admitted while
		// classifying; the newer message wins in both cases.
		reason := fmt.Sprintf("superseded by a newer message (%s)", intent)
		current.Token.Cancel(reason)
		log.Printf("[session] user %s: cancelled active run: %s", userKey, reason)
		m.emit(events.Event{Type: events.TypeSessionCancelled, UserKey: userKey, Message: reason})
		if m.notify != nil {
			m.notify(userKey, reason)
		}
	}
	m.sessions[userKey] = sess
	m.mu.Unlock()

	m.emit(events.Event{Type: events.TypeSessionStarted, UserKey: userKey})

	defer func() {
		m.mu.Lock()
		// Only remove our own entry; a preempting message may have
		// replaced it already.
		if m.sessions[userKey] == sess {
			delete(m.sessions, userKey)
		}
		m.mu.Unlock()
		m.emit(events.Event{Type: events.TypeSessionCompleted, UserKey: userKey, Duration: time.Since(sess.StartedAt)})
	}()

	outcome := runFn(ctx, sess.Token)
	m.record(ctx, sess, outcome)
	return outcome
}

// CancelUser cancels the active run for a user, if any. Returns true when
// a session was found. Used by the operator signal watcher.
func (m *Manager) CancelUser(userKey, reason string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[userKey]
	if !ok {
		return false
	}
	sess.Token.Cancel(reason)
	m.emit(events.Event{Type: events.TypeSessionCancelled, UserKey: userKey, Message: reason})
	return true
}

// CancelAll cancels every active run.
func (m *Manager) CancelAll(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	for userKey, sess := range m.sessions {
		sess.Token.Cancel(reason)
		m.emit(events.Event{Type: events.TypeSessionCancelled, UserKey: userKey, Message: reason})
	}
	return len(m.sessions)
}

// ActiveCount returns the number of in-flight sessions.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Active reports whether the user currently has an in-flight session.
func (m *Manager) Active(userKey string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[userKey]
	return ok
}

// record persists the settled run, best-effort: a storage failure is
// logged and never affects the outcome.
func (m *Manager) record(ctx context.Context, sess *ActiveSession, outcome models.Outcome) {
	if m.recorder == nil {
		return
	}
	rec := state.RunRecord{
		UserKey:   sess.UserKey,
		Message:   sess.Message,
		Action:    outcome.Action,
		Outcome:   string(outcome.Kind),
		Reason:    outcome.Reason,
		ToolCount: len(outcome.Results),
		StartedAt: sess.StartedAt,
		Duration:  time.Since(sess.StartedAt),
	}
	if err := m.recorder.RecordRun(ctx, rec); err != nil {
		log.Printf("[session] failed to record run for %s: %v", sess.UserKey, err)
	}
}

func (m *Manager) emit(event events.Event) {
	if m.emitter != nil {
		m.emitter.Emit(event)
	}
}
