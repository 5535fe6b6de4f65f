package runtime

import (
	"log"

	"github.com/guestflow/concierge/pkg/models"
)

// WaveHook is a post-wave extension point. After a wave's results are
// collected, each registered hook may inspect the wave's calls and results
// and return additional synthesized entries to inject into the result map
// (an aggregate computed from several same-type calls, for example).
//
// Hooks cannot alter or remove existing entries: returned keys that
// collide with an existing ID are discarded. A panicking hook is swallowed
// and logged; it never aborts the wave.
type WaveHook func(wave []models.ToolCall, results map[string]models.ToolResult) map[string]models.ToolResult

// runHooks invokes every registered hook for a settled wave and merges the
// synthesized entries, add-only.
func (r *Runtime) runHooks(wave []models.ToolCall, results map[string]models.ToolResult) {
	for _, hook := range r.hooks {
		extras := safeHook(hook, wave, results)
		for id, res := range extras {
			if _, exists := results[id]; exists {
				log.Printf("[runtime] wave hook tried to overwrite result %q, ignored", id)
				continue
			}
			results[id] = res
		}
	}
}

// safeHook runs one hook against a snapshot of the results, recovering
// from panics so a misbehaving extension fails soft.
func safeHook(hook WaveHook, wave []models.ToolCall, results map[string]models.ToolResult) (extras map[string]models.ToolResult) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[runtime] wave hook panicked, ignoring: %v", rec)
			extras = nil
		}
	}()

	snapshot := make(map[string]models.ToolResult, len(results))
	for id, res := range results {
		snapshot[id] = res
	}
	return hook(wave, snapshot)
}
