package events

import (
	"testing"
	"time"
)

func TestEmitDelivers(t *testing.T) {
	e := NewEmitter(4)

	e.Emit(Event{Type: TypeWaveStarted, Wave: 0, Count: 2})
	e.Emit(Event{Type: TypeToolCompleted, CallID: "avail_1", Tool: "check_availability"})

	got := <-e.Events()
	if got.Type != TypeWaveStarted || got.Count != 2 {
		t.Errorf("first event = %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Error("Timestamp not stamped")
	}

	got = <-e.Events()
	if got.Type != TypeToolCompleted || got.CallID != "avail_1" {
		t.Errorf("second event = %+v", got)
	}
}

func TestEmitKeepsCallerTimestamp(t *testing.T) {
	e := NewEmitter(1)
	ts := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	e.Emit(Event{Type: TypeSessionStarted, Timestamp: ts})
	if got := <-e.Events(); !got.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, ts)
	}
}

func TestEmitDropsWhenFull(t *testing.T) {
	e := NewEmitter(1)

	e.Emit(Event{Type: TypeToolStarted})
	// No subscriber is draining, so this one times out and is dropped.
	e.Emit(Event{Type: TypeToolCompleted})

	if got := e.DroppedCount(); got != 1 {
		t.Errorf("DroppedCount = %d, want 1", got)
	}

	// The buffered event is still deliverable.
	if got := <-e.Events(); got.Type != TypeToolStarted {
		t.Errorf("event = %+v", got)
	}
}

func TestCloseEndsSubscription(t *testing.T) {
	e := NewEmitter(2)
	e.Emit(Event{Type: TypeSessionCompleted})
	e.Close()

	if got, ok := <-e.Events(); !ok || got.Type != TypeSessionCompleted {
		t.Errorf("event = %+v ok = %v", got, ok)
	}
	if _, ok := <-e.Events(); ok {
		t.Error("channel still open after Close")
	}
}
