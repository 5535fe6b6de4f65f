package tools

import (
	"github.com/guestflow/concierge/pkg/models"
)

// CheapestRateHook is a wave hook that scans availability listings produced
// in a wave and derives a single "cheapest_rate" structured result naming
// the lowest-total option found. Later calls can depend on it by declaring
// the hook's ID in their needs.
//
// The hook adds nothing when the wave produced no availability listings or
// all listings were empty.
func CheapestRateHook(wave []models.ToolCall, results map[string]models.ToolResult) map[string]models.ToolResult {
	var best map[string]any
	bestTotal := 0

	for _, tc := range wave {
		if tc.Tool != "check_availability" {
			continue
		}
		res, ok := results[tc.ID]
		if !ok || res.Kind != models.ResultListing {
			continue
		}
		for _, opt := range res.Options {
			total, ok := asInt(opt["total"])
			if !ok {
				continue
			}
			if best == nil || total < bestTotal {
				best = opt
				bestTotal = total
			}
		}
	}

	if best == nil {
		return nil
	}
	return map[string]models.ToolResult{
		"cheapest_rate": models.StructuredResult(map[string]any{
			"category":     best["category"],
			"name":         best["name"],
			"total":        bestTotal,
			"nightly_rate": best["nightly_rate"],
			"check_in":     best["check_in"],
			"check_out":    best["check_out"],
		}),
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
