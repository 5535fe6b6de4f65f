// Package session maps user identities to at most one in-flight
// orchestration run and decides whether a new message preempts the run.
package session

import (
	"context"
	"log"
	"strings"
	"time"
)

// Intent classifies an incoming message relative to ongoing work.
type Intent string

const (
	// IntentStatusCheck means the user is only asking whether the system
	// is still working; ongoing work continues untouched.
	IntentStatusCheck Intent = "status_check"
	// IntentNewRequest means the user changed their mind; ongoing work is
	// cancelled and replaced.
	IntentNewRequest Intent = "new_request"
	// IntentClarification means the user is adding a constraint to the
	// current request; the stale run is cancelled and replanned with the
	// fuller message.
	IntentClarification Intent = "clarification"
	// IntentUnknown means no tier could classify the message.
	IntentUnknown Intent = "unknown"
)

// DefaultClassifyTimeout bounds the external-classifier fallback.
const DefaultClassifyTimeout = 2 * time.Second

// statusPhrases match messages that merely ask after progress.
var statusPhrases = []string{
	"still there", "are you there", "you there", "hello?", "any update",
	"are you working", "still working", "how's it going", "hows it going",
	"did you finish", "are you done", "status",
}

// changeOfMindPhrases match explicit reversals that start a new request.
var changeOfMindPhrases = []string{
	"actually", "instead", "forget that", "forget it", "never mind",
	"nevermind", "cancel that", "scratch that", "changed my mind",
	"on second thought", "new request",
}

// clarificationLeads match messages that extend the current request.
var clarificationLeads = []string{
	"and ", "also ", "oh and ", "but ", "plus ", "with ",
}

var clarificationPhrases = []string{
	"need", "must have", "has to have", "don't forget", "make sure",
}

// FallbackClassifier is the external collaborator consulted for text the
// deterministic tier cannot place.
type FallbackClassifier interface {
	ClassifyIntent(ctx context.Context, message string) (Intent, error)
}

// Classifier is the two-tier intent classifier: a fast deterministic
// pattern match, then a bounded-timeout external fallback. On fallback
// timeout or failure it defaults to IntentNewRequest, never to
// status_check, since silently not cancelling risks processing a stale,
// superseded request.
type Classifier struct {
	fallback FallbackClassifier
	timeout  time.Duration
}

// NewClassifier creates a Classifier. fallback may be nil, in which case
// ambiguous messages classify as IntentNewRequest directly.
func NewClassifier(fallback FallbackClassifier, timeout time.Duration) *Classifier {
	if timeout <= 0 {
		timeout = DefaultClassifyTimeout
	}
	return &Classifier{fallback: fallback, timeout: timeout}
}

// Classify places a message into an Intent.
func (c *Classifier) Classify(ctx context.Context, message string) Intent {
	if intent, ok := classifyDeterministic(message); ok {
		return intent
	}

	if c.fallback == nil {
		return IntentNewRequest
	}

	fallbackCtx, cancelFn := context.WithTimeout(ctx, c.timeout)
	defer cancelFn()

	intent, err := c.fallback.ClassifyIntent(fallbackCtx, message)
	if err != nil {
		log.Printf("[session] intent fallback failed, defaulting to new_request: %v", err)
		return IntentNewRequest
	}
	switch intent {
	case IntentStatusCheck, IntentNewRequest, IntentClarification:
		return intent
	default:
		return IntentNewRequest
	}
}

// classifyDeterministic is the fast first tier. Returns ok=false when the
// message matches no pattern.
func classifyDeterministic(message string) (Intent, bool) {
	text := strings.ToLower(strings.TrimSpace(message))
	if text == "" {
		return IntentStatusCheck, true
	}

	for _, phrase := range statusPhrases {
		if strings.Contains(text, phrase) {
			return IntentStatusCheck, true
		}
	}
	if isGreetingOnly(text) {
		return IntentStatusCheck, true
	}

	for _, phrase := range changeOfMindPhrases {
		if strings.Contains(text, phrase) {
			return IntentNewRequest, true
		}
	}

	for _, lead := range clarificationLeads {
		if strings.HasPrefix(text, lead) {
			return IntentClarification, true
		}
	}
	for _, phrase := range clarificationPhrases {
		if strings.Contains(text, phrase) {
			return IntentClarification, true
		}
	}

	return IntentUnknown, false
}

// isGreetingOnly matches bare greetings ("hi", "hey there") that carry no
// new request.
func isGreetingOnly(text string) bool {
	trimmed := strings.Trim(text, "!?. ")
	switch trimmed {
	case "hi", "hey", "hello", "yo", "hiya", "hey there", "hi there":
		return true
	default:
		return false
	}
}
