package cancel

import (
	"sync"
	"testing"
)

func TestTokenStartsUncancelled(t *testing.T) {
	token := NewToken()
	if token.IsCancelled() {
		t.Error("new token should not be cancelled")
	}
	if token.Reason() != "" {
		t.Errorf("Reason = %q, want empty", token.Reason())
	}
}

func TestCancelSetsReasonAndSticks(t *testing.T) {
	token := NewToken()
	token.Cancel("superseded")

	if !token.IsCancelled() {
		t.Fatal("token should be cancelled")
	}
	if token.Reason() != "superseded" {
		t.Errorf("Reason = %q, want %q", token.Reason(), "superseded")
	}

	// A second cancel keeps the token cancelled with the latest reason.
	token.Cancel("operator signal")
	if !token.IsCancelled() {
		t.Error("token should stay cancelled")
	}
	if token.Reason() != "operator signal" {
		t.Errorf("Reason = %q, want %q", token.Reason(), "operator signal")
	}
}

func TestReset(t *testing.T) {
	token := NewToken()
	token.Cancel("done")
	token.Reset()

	if token.IsCancelled() {
		t.Error("reset token should not be cancelled")
	}
	if token.Reason() != "" {
		t.Errorf("Reason = %q, want empty after reset", token.Reason())
	}
}

func TestConcurrentCancelAndCheck(t *testing.T) {
	token := NewToken()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			token.Cancel("concurrent")
		}()
		go func() {
			defer wg.Done()
			token.IsCancelled()
			token.Reason()
		}()
	}
	wg.Wait()

	if !token.IsCancelled() {
		t.Error("token should be cancelled after concurrent cancels")
	}
}
