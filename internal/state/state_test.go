package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "concierge.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestRecordAndRecentRuns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	started := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	for i, action := range []string{"check_availability", "answer_faq", "check_availability"} {
		rec := RunRecord{
			UserKey:   "guest-1",
			Message:   "message " + action,
			Action:    action,
			Outcome:   "ok",
			ToolCount: i + 1,
			StartedAt: started.Add(time.Duration(i) * time.Minute),
			Duration:  1500 * time.Millisecond,
		}
		if err := db.RecordRun(ctx, rec); err != nil {
			t.Fatalf("RecordRun %d: %v", i, err)
		}
	}
	other := RunRecord{
		UserKey: "guest-2", Message: "hi", Action: "greet",
		Outcome: "ok", StartedAt: started,
	}
	if err := db.RecordRun(ctx, other); err != nil {
		t.Fatalf("RecordRun other user: %v", err)
	}

	runs, err := db.RecentRuns(ctx, "guest-1", 2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want limit 2", len(runs))
	}
	// Newest first.
	if runs[0].ToolCount != 3 || runs[1].ToolCount != 2 {
		t.Errorf("order: got tool counts %d, %d, want 3, 2", runs[0].ToolCount, runs[1].ToolCount)
	}
	if runs[0].Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v, want 1.5s", runs[0].Duration)
	}
	if runs[0].UserKey != "guest-1" {
		t.Errorf("UserKey = %q", runs[0].UserKey)
	}
}

func TestRecentRunsEmptyAndDefaultLimit(t *testing.T) {
	db := openTestDB(t)

	runs, err := db.RecentRuns(context.Background(), "nobody", 0)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs for unknown user", len(runs))
	}
}

func TestCancelledRunKeepsReason(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	rec := RunRecord{
		UserKey:   "guest-1",
		Message:   "book the suite",
		Action:    "operation_cancelled",
		Outcome:   "cancelled",
		Reason:    "superseded by a new request",
		StartedAt: time.Now().UTC(),
	}
	if err := db.RecordRun(ctx, rec); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	runs, err := db.RecentRuns(ctx, "guest-1", 1)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Reason != "superseded by a new request" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestFAQUpsertAndLookup(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.UpsertFAQ(ctx, "parking", "25 per night"); err != nil {
		t.Fatalf("UpsertFAQ: %v", err)
	}
	answer, err := db.LookupFAQ(ctx, "parking")
	if err != nil {
		t.Fatalf("LookupFAQ: %v", err)
	}
	if answer != "25 per night" {
		t.Errorf("answer = %q", answer)
	}

	// Upsert replaces.
	if err := db.UpsertFAQ(ctx, "parking", "now free"); err != nil {
		t.Fatalf("UpsertFAQ replace: %v", err)
	}
	answer, err = db.LookupFAQ(ctx, "parking")
	if err != nil {
		t.Fatalf("LookupFAQ after replace: %v", err)
	}
	if answer != "now free" {
		t.Errorf("answer = %q, want replacement", answer)
	}
}

func TestFAQLookupUnknownTopic(t *testing.T) {
	db := openTestDB(t)

	answer, err := db.LookupFAQ(context.Background(), "helipad")
	if err != nil {
		t.Fatalf("LookupFAQ: %v", err)
	}
	if answer != "" {
		t.Errorf("answer = %q, want empty", answer)
	}
}
