package runtime

import (
	"github.com/guestflow/concierge/internal/tools"
	"github.com/guestflow/concierge/pkg/models"
)

// resolveArgs computes a call's effective arguments: the declared args,
// overlaid with shared run-context values (caller credentials and the
// like), then any still-unset argument filled from the results of the
// call's own declared dependencies.
//
// A context value is taken only for keys the call declares or the tool's
// schema accepts; the rest of the shared context never reaches a tool
// that has no argument for it.
//
// Only the results of IDs listed in the call's needs are consulted, in
// declaration order; the first dependency exposing a field with the same
// name wins. Siblings that are not declared dependencies are never
// searched, even when they expose a field with the same name, so one
// parallel branch's output cannot leak into an unrelated branch.
func resolveArgs(tc models.ToolCall, schema tools.Schema, runContext map[string]any, prior map[string]models.ToolResult) map[string]any {
	merged := make(map[string]any, len(tc.Args)+len(runContext))
	for k, v := range tc.Args {
		merged[k] = v
	}

	// Context values fill unset arguments and add keys the planner never
	// declares (credentials), as long as the tool has a slot for them.
	for k, v := range runContext {
		if _, declared := tc.Args[k]; !declared {
			if _, known := schema[k]; !known {
				continue
			}
		}
		if existing, ok := merged[k]; !ok || existing == nil {
			merged[k] = v
		}
	}

	for name, v := range merged {
		if v != nil {
			continue
		}
		for _, depID := range tc.Needs {
			dep, ok := prior[depID]
			if !ok || dep.IsError() {
				continue
			}
			if value, found := dep.Field(name); found {
				merged[name] = value
				break
			}
		}
	}

	return merged
}
