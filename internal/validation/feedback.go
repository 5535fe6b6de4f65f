package validation

import (
	"fmt"
	"strings"

	"github.com/guestflow/concierge/pkg/models"
)

// suggestions maps issue kinds to remediation hints for the re-planner.
var suggestions = map[IssueKind]string{
	IssueError:       "Retry the operation with corrected arguments, or use a different tool for the same information.",
	IssueNoResults:   "Try nearby dates, a shorter stay duration, or an alternate room category.",
	IssueEmptyResult: "Rephrase the query or consult a broader source for this information.",
}

// buildFeedback produces the human-readable re-planning context: the
// original request and intended action, issues grouped by kind with
// kind-specific suggestions, and a terse summary of the successful results
// gathered so far, so the re-planner does not discard good partial
// information. The text is opaque to the scheduler.
func buildFeedback(userMessage, plannedAction string, issues []Issue, calls []models.ToolCall, results map[string]models.ToolResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Original request: %s\n", userMessage)
	fmt.Fprintf(&b, "Intended action: %s\n", plannedAction)

	grouped := make(map[IssueKind][]Issue)
	for _, issue := range issues {
		grouped[issue.Kind] = append(grouped[issue.Kind], issue)
	}

	for _, kind := range []IssueKind{IssueError, IssueNoResults, IssueEmptyResult} {
		group := grouped[kind]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s (%d):\n", kind, len(group))
		for _, issue := range group {
			fmt.Fprintf(&b, "  - [%s] %s: %s\n", issue.Severity, issue.SubjectID, issue.Message)
		}
		if hint, ok := suggestions[kind]; ok {
			fmt.Fprintf(&b, "  Suggestion: %s\n", hint)
		}
	}

	if summary := summarizeSuccesses(calls, issues, results); summary != "" {
		fmt.Fprintf(&b, "\nSuccessful results so far:\n%s", summary)
	}

	return b.String()
}

// summarizeSuccesses lists the calls that produced usable payloads.
func summarizeSuccesses(calls []models.ToolCall, issues []Issue, results map[string]models.ToolResult) string {
	flagged := make(map[string]bool, len(issues))
	for _, issue := range issues {
		flagged[issue.SubjectID] = true
	}

	var b strings.Builder
	for _, tc := range calls {
		if flagged[tc.ID] {
			continue
		}
		result, ok := results[tc.ID]
		if !ok {
			continue
		}
		switch result.Kind {
		case models.ResultListing:
			fmt.Fprintf(&b, "  - %s (%s): %d options\n", tc.ID, tc.Tool, len(result.Options))
		case models.ResultStructured:
			fmt.Fprintf(&b, "  - %s (%s): %d fields\n", tc.ID, tc.Tool, len(result.Fields))
		case models.ResultScalar:
			fmt.Fprintf(&b, "  - %s (%s): %s\n", tc.ID, tc.Tool, truncate(fmt.Sprintf("%v", result.Value), 80))
		}
	}
	return b.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
