package tools

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/guestflow/concierge/internal/state"
	"github.com/guestflow/concierge/pkg/models"
)

func seededDB(t *testing.T) *state.DB {
	t.Helper()
	db, err := state.Open(filepath.Join(t.TempDir(), "concierge.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := SeedFAQ(context.Background(), db); err != nil {
		t.Fatalf("SeedFAQ: %v", err)
	}
	return db
}

func TestFAQToolAnswersSeededTopic(t *testing.T) {
	tool := NewFAQTool(seededDB(t))

	res, err := tool.Call(context.Background(), map[string]any{"topic": "parking"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res.Kind != models.ResultScalar {
		t.Fatalf("Kind = %s, want scalar", res.Kind)
	}
	if res.IsEmpty() {
		t.Error("seeded topic produced an empty answer")
	}
}

func TestFAQToolUnknownTopicIsEmptyScalar(t *testing.T) {
	tool := NewFAQTool(seededDB(t))

	res, err := tool.Call(context.Background(), map[string]any{"topic": "helipad"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res.Kind != models.ResultScalar || !res.IsEmpty() {
		t.Errorf("result = %+v, want empty scalar", res)
	}
}

func TestSeedFAQIsRepeatable(t *testing.T) {
	db := seededDB(t)
	if err := SeedFAQ(context.Background(), db); err != nil {
		t.Fatalf("second SeedFAQ: %v", err)
	}
}
