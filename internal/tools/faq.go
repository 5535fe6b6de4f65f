package tools

import (
	"context"

	"github.com/guestflow/concierge/internal/state"
	"github.com/guestflow/concierge/pkg/models"
)

// FAQTool answers property FAQ questions from the local store. Returns a
// scalar result; an empty scalar means no entry matched.
type FAQTool struct {
	db *state.DB
}

// NewFAQTool creates the faq_lookup tool backed by the given store.
func NewFAQTool(db *state.DB) *FAQTool {
	return &FAQTool{db: db}
}

// Name returns the registry key.
func (t *FAQTool) Name() string { return "faq_lookup" }

// Schema describes the accepted arguments.
func (t *FAQTool) Schema() Schema {
	return Schema{
		"topic": {Type: ArgString, Required: true, Description: "FAQ topic, e.g. parking, breakfast, checkout_time"},
	}
}

// Call looks up the topic and returns the answer as a scalar result.
func (t *FAQTool) Call(ctx context.Context, args map[string]any) (models.ToolResult, error) {
	topic := StringArg(args, "topic")

	answer, err := t.db.LookupFAQ(ctx, topic)
	if err != nil {
		return models.ToolResult{}, err
	}
	return models.ScalarResult(answer), nil
}

// SeedFAQ loads a starter set of FAQ entries into the store. Existing
// entries for the same topics are overwritten.
func SeedFAQ(ctx context.Context, db *state.DB) error {
	entries := map[string]string{
		"parking":       "On-site parking is 25 per night, reservation not required.",
		"breakfast":     "Breakfast is served 6:30-10:30 in the lobby restaurant, 18 per person.",
		"checkout_time": "Checkout is at 11:00. Late checkout until 14:00 is 40, subject to availability.",
		"checkin_time":  "Check-in opens at 15:00. Early check-in is free when a room is ready.",
		"pets":          "Dogs up to 20kg are welcome for 30 per stay. Other pets on request.",
		"wifi":          "Wifi is free in all rooms and public areas, network GUESTFLOW.",
	}
	for topic, answer := range entries {
		if err := db.UpsertFAQ(ctx, topic, answer); err != nil {
			return err
		}
	}
	return nil
}
