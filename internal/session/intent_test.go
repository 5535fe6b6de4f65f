package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

// scriptedFallback returns a fixed intent or error and records calls.
type scriptedFallback struct {
	intent Intent
	err    error
	calls  int
	delay  time.Duration
}

func (s *scriptedFallback) ClassifyIntent(ctx context.Context, message string) (Intent, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return IntentUnknown, ctx.Err()
		}
	}
	return s.intent, s.err
}

func TestClassifyStatusPhrases(t *testing.T) {
	c := NewClassifier(nil, 0)
	for _, msg := range []string{
		"are you still there?",
		"any update on my booking?",
		"how's it going",
		"hello?",
		"",
		"hey",
	} {
		if got := c.Classify(context.Background(), msg); got != IntentStatusCheck {
			t.Errorf("Classify(%q) = %v, want status_check", msg, got)
		}
	}
}

func TestClassifyChangeOfMind(t *testing.T) {
	c := NewClassifier(nil, 0)
	for _, msg := range []string{
		"actually make it a suite",
		"forget that, what about next month",
		"never mind the pool question",
	} {
		if got := c.Classify(context.Background(), msg); got != IntentNewRequest {
			t.Errorf("Classify(%q) = %v, want new_request", msg, got)
		}
	}
}

func TestClassifyClarification(t *testing.T) {
	c := NewClassifier(nil, 0)
	for _, msg := range []string{
		"and we need a cot for the baby",
		"also is parking included",
		"it must have a sea view",
	} {
		if got := c.Classify(context.Background(), msg); got != IntentClarification {
			t.Errorf("Classify(%q) = %v, want clarification", msg, got)
		}
	}
}

func TestClassifyFallsBackForAmbiguousText(t *testing.T) {
	fallback := &scriptedFallback{intent: IntentStatusCheck}
	c := NewClassifier(fallback, time.Second)

	got := c.Classify(context.Background(), "hmm what about the weather")
	if got != IntentStatusCheck {
		t.Errorf("Classify = %v, want the fallback's verdict", got)
	}
	if fallback.calls != 1 {
		t.Errorf("fallback calls = %d, want 1", fallback.calls)
	}
}

func TestClassifyDeterministicSkipsFallback(t *testing.T) {
	fallback := &scriptedFallback{intent: IntentClarification}
	c := NewClassifier(fallback, time.Second)

	c.Classify(context.Background(), "any update?")
	if fallback.calls != 0 {
		t.Error("deterministic matches must not consult the fallback")
	}
}

func TestClassifyFallbackErrorDefaultsToNewRequest(t *testing.T) {
	fallback := &scriptedFallback{err: errors.New("api down")}
	c := NewClassifier(fallback, time.Second)

	if got := c.Classify(context.Background(), "qqq"); got != IntentNewRequest {
		t.Errorf("Classify = %v, want new_request on fallback failure", got)
	}
}

func TestClassifyFallbackTimeoutDefaultsToNewRequest(t *testing.T) {
	fallback := &scriptedFallback{intent: IntentStatusCheck, delay: 200 * time.Millisecond}
	c := NewClassifier(fallback, 10*time.Millisecond)

	if got := c.Classify(context.Background(), "qqq"); got != IntentNewRequest {
		t.Errorf("Classify = %v, a slow fallback must never yield status_check", got)
	}
}

func TestClassifyNoFallbackDefaultsToNewRequest(t *testing.T) {
	c := NewClassifier(nil, 0)
	if got := c.Classify(context.Background(), "qqq"); got != IntentNewRequest {
		t.Errorf("Classify = %v, want new_request without a fallback", got)
	}
}

func TestClassifyUnknownFallbackVerdictDefaultsToNewRequest(t *testing.T) {
	fallback := &scriptedFallback{intent: IntentUnknown}
	c := NewClassifier(fallback, time.Second)

	if got := c.Classify(context.Background(), "qqq"); got != IntentNewRequest {
		t.Errorf("Classify = %v, want new_request on an unknown verdict", got)
	}
}
