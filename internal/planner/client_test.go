package planner

import (
	"strings"
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	var got struct {
		Action string `json:"action"`
	}
	response := "Here is the plan:\n```json\n{\"action\": \"check_availability\"}\n```\nDone."
	if err := ExtractJSON(response, &got); err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if got.Action != "check_availability" {
		t.Errorf("action = %q", got.Action)
	}
}

func TestExtractJSONArray(t *testing.T) {
	var got []string
	if err := ExtractJSON("the labels are [\"status_check\", \"new_request\"] as requested", &got); err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if len(got) != 2 || got[0] != "status_check" {
		t.Errorf("got %v", got)
	}
}

func TestExtractJSONBareObject(t *testing.T) {
	var got map[string]any
	if err := ExtractJSON(`{"slots": {"guests": 2}}`, &got); err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if _, ok := got["slots"]; !ok {
		t.Errorf("got %v", got)
	}
}

func TestExtractJSONNoPayload(t *testing.T) {
	var got map[string]any
	err := ExtractJSON("I could not produce a plan for that request.", &got)
	if err == nil || !strings.Contains(err.Error(), "no valid JSON") {
		t.Errorf("err = %v", err)
	}
}

func TestExtractJSONTruncatedPayload(t *testing.T) {
	var got map[string]any
	if err := ExtractJSON(`{"action": "check_availa`, &got); err == nil {
		t.Error("parsed a truncated payload")
	}
}

func TestTokenTracker(t *testing.T) {
	tr := NewTokenTracker()
	tr.Add(100, 40)
	tr.Add(50, 10)

	in, out := tr.Total()
	if in != 150 || out != 50 {
		t.Errorf("Total = %d, %d", in, out)
	}
	if tr.Calls() != 2 {
		t.Errorf("Calls = %d", tr.Calls())
	}
}
