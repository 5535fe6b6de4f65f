package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/guestflow/concierge/pkg/models"
)

func categories(res models.ToolResult) map[string]map[string]any {
	out := make(map[string]map[string]any)
	for _, opt := range res.Options {
		out[opt["category"].(string)] = opt
	}
	return out
}

func TestAvailabilityFiltersByCapacity(t *testing.T) {
	tool := NewAvailabilityTool(NewPMS())

	res, err := tool.Call(context.Background(), map[string]any{
		"check_in":  "2026-09-04",
		"check_out": "2026-09-06",
		"guests":    4,
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res.Kind != models.ResultListing {
		t.Fatalf("Kind = %s, want listing", res.Kind)
	}

	got := categories(res)
	if len(got) != 1 {
		t.Fatalf("got %d categories, want only family: %v", len(got), got)
	}
	fam, ok := got["family"]
	if !ok {
		t.Fatal("family room missing from listing")
	}
	if fam["total"] != 520 {
		t.Errorf("family total = %v, want 520 for 2 nights at 260", fam["total"])
	}
}

func TestAvailabilityDefaultsToTwoGuests(t *testing.T) {
	tool := NewAvailabilityTool(NewPMS())

	res, err := tool.Call(context.Background(), map[string]any{
		"check_in":  "2026-09-04",
		"check_out": "2026-09-05",
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(res.Options) != 4 {
		t.Errorf("got %d categories, want all 4 for 2 guests", len(res.Options))
	}
}

func TestAvailabilityRejectsBadDates(t *testing.T) {
	tool := NewAvailabilityTool(NewPMS())

	cases := []struct {
		name string
		args map[string]any
		want string
	}{
		{"malformed check_in", map[string]any{"check_in": "Sept 4", "check_out": "2026-09-06"}, "bad check_in"},
		{"malformed check_out", map[string]any{"check_in": "2026-09-04", "check_out": "soon"}, "bad check_out"},
		{"inverted stay", map[string]any{"check_in": "2026-09-06", "check_out": "2026-09-04"}, "must be after"},
		{"zero nights", map[string]any{"check_in": "2026-09-04", "check_out": "2026-09-04"}, "must be after"},
	}
	for _, tc := range cases {
		_, err := tool.Call(context.Background(), tc.args)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: err = %v, want substring %q", tc.name, err, tc.want)
		}
	}
}

func TestBookReducesAvailability(t *testing.T) {
	pms := NewPMS()
	tool := NewAvailabilityTool(pms)

	// Suites have 3 rooms. Book all of them for one overlapping night.
	for i := 0; i < 3; i++ {
		if err := pms.Book("suite", "2026-09-04", "2026-09-06"); err != nil {
			t.Fatalf("Book %d: %v", i, err)
		}
	}
	if err := pms.Book("suite", "2026-09-05", "2026-09-07"); err == nil {
		t.Fatal("Book on a sold-out night succeeded, want error")
	}

	res, err := tool.Call(context.Background(), map[string]any{
		"check_in":  "2026-09-04",
		"check_out": "2026-09-06",
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if _, ok := categories(res)["suite"]; ok {
		t.Error("suite still listed after selling out")
	}

	// A non-overlapping stay is unaffected.
	if err := pms.Book("suite", "2026-09-06", "2026-09-08"); err != nil {
		t.Errorf("Book after checkout: %v", err)
	}
}

func TestBookUnknownCategory(t *testing.T) {
	pms := NewPMS()
	if err := pms.Book("penthouse", "2026-09-04", "2026-09-06"); err == nil {
		t.Fatal("Book unknown category succeeded, want error")
	}
}

func TestRoomsToolFilters(t *testing.T) {
	tool := NewRoomsTool(NewPMS())

	res, err := tool.Call(context.Background(), map[string]any{"category": "Deluxe"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(res.Options) != 1 || res.Options[0]["name"] != "Deluxe King" {
		t.Errorf("category filter: got %v, want Deluxe King only", res.Options)
	}

	res, err = tool.Call(context.Background(), map[string]any{"guests": 3})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	got := categories(res)
	if len(got) != 2 {
		t.Errorf("guest filter: got %v, want family and suite", got)
	}
	for _, want := range []string{"family", "suite"} {
		if _, ok := got[want]; !ok {
			t.Errorf("guest filter: %s missing", want)
		}
	}
}

func TestRoomsToolUnfiltered(t *testing.T) {
	tool := NewRoomsTool(NewPMS())

	res, err := tool.Call(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(res.Options) != 4 {
		t.Errorf("got %d categories, want 4", len(res.Options))
	}
}
