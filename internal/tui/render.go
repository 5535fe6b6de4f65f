package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guestflow/concierge/pkg/models"
)

// renderOutcome formats a finished run as transcript lines.
func renderOutcome(outcome models.Outcome) []string {
	var lines []string

	switch outcome.Kind {
	case models.OutcomeFatal:
		lines = append(lines, errorStyle.Render("Something went wrong: "+outcome.Err.Error()))
		return lines
	case models.OutcomeCancelled:
		lines = append(lines, replyStyle.Render(outcome.Message))
		if len(outcome.Results) > 0 {
			lines = append(lines, progressStyle.Render(fmt.Sprintf("  (%d result(s) were gathered before stopping)", len(outcome.Results))))
		}
		return lines
	}

	if outcome.Message != "" {
		lines = append(lines, replyStyle.Render(outcome.Message))
	}
	for _, line := range renderResults(outcome.Results) {
		lines = append(lines, replyStyle.Render(line))
	}
	if len(lines) == 0 {
		lines = append(lines, replyStyle.Render("Done, nothing to report."))
	}
	return lines
}

// renderResults formats the result map in stable call-ID order.
func renderResults(results map[string]models.ToolResult) []string {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var lines []string
	for _, id := range ids {
		res := results[id]
		switch res.Kind {
		case models.ResultError:
			lines = append(lines, fmt.Sprintf("%s: failed (%s)", id, res.Err))
		case models.ResultScalar:
			if res.IsEmpty() {
				lines = append(lines, fmt.Sprintf("%s: no answer found", id))
			} else {
				lines = append(lines, fmt.Sprintf("%s: %v", id, res.Value))
			}
		case models.ResultListing:
			lines = append(lines, fmt.Sprintf("%s: %d option(s)", id, len(res.Options)))
			for _, opt := range res.Options {
				lines = append(lines, "  - "+renderFields(opt))
			}
		case models.ResultStructured:
			lines = append(lines, fmt.Sprintf("%s: %s", id, renderFields(res.Fields)))
		}
	}
	return lines
}

// renderFields formats a field map as "k=v" pairs in key order.
func renderFields(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}
