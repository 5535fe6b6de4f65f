// Package cancel provides the cooperative cancellation token shared between
// the session manager and the wave scheduler.
package cancel

import "sync"

// Token is a thread-safe cancellation flag. A producer (whoever detects a
// preempting event) calls Cancel; the scheduler polls IsCancelled at wave
// boundaries. Cancellation is cooperative and coarse-grained: a wave already
// in flight always finishes before the flag is observed.
//
// One token is created per logical run and never reused across runs.
type Token struct {
	mu        sync.RWMutex
	cancelled bool
	reason    string
}

// NewToken creates a fresh, uncancelled token.
func NewToken() *Token {
	return &Token{}
}

// Cancel marks the token cancelled. Idempotent: cancelling an already
// cancelled token only overwrites the reason.
func (t *Token) Cancel(reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled = true
	t.reason = reason
}

// IsCancelled reports whether the token has been cancelled.
func (t *Token) IsCancelled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cancelled
}

// Reason returns the cancellation reason, or "" if not cancelled.
func (t *Token) Reason() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.reason
}

// Reset clears the cancelled state. Exists for token reuse in tests only;
// production code always creates a fresh token per run.
func (t *Token) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled = false
	t.reason = ""
}
