// Package validation inspects a completed round of tool results against the
// original request and plan, and decides whether re-planning is warranted.
package validation

import (
	"fmt"
	"strings"

	"github.com/guestflow/concierge/pkg/models"
)

// IssueKind classifies a validation finding.
type IssueKind string

const (
	// IssueError indicates the tool returned an error record.
	IssueError IssueKind = "error"
	// IssueNoResults indicates an availability/listing query returned an
	// empty option list.
	IssueNoResults IssueKind = "no_results"
	// IssueEmptyResult indicates a payload with no information.
	IssueEmptyResult IssueKind = "empty_result"
)

// Severity ranks how strongly an issue argues for adaptation.
type Severity string

const (
	// SeverityCritical issues force adaptation on their own.
	SeverityCritical Severity = "critical"
	// SeverityHigh issues count toward the adaptation ratio.
	SeverityHigh Severity = "high"
	// SeverityMedium issues are reported but rarely decisive.
	SeverityMedium Severity = "medium"
	// SeverityLow issues are informational.
	SeverityLow Severity = "low"
)

// Issue is one finding about a single tool call's result.
type Issue struct {
	// Kind classifies the finding.
	Kind IssueKind `json:"kind"`
	// SubjectID is the tool-call ID the finding is about.
	SubjectID string `json:"subject_id"`
	// Message describes the finding.
	Message string `json:"message"`
	// Severity ranks the finding.
	Severity Severity `json:"severity"`
}

// Report is the validator's verdict on a round of results.
type Report struct {
	// NeedsAdaptation is true when re-planning is warranted.
	NeedsAdaptation bool `json:"needs_adaptation"`
	// Issues lists every finding, one per affected call.
	Issues []Issue `json:"issues,omitempty"`
	// Feedback is the re-planning context handed to the planner.
	// Populated only when adaptation is needed.
	Feedback string `json:"feedback,omitempty"`
}

// DefaultAdaptationThreshold is the issue ratio at which adaptation is
// requested even without a critical finding.
const DefaultAdaptationThreshold = 0.5

// Validator applies the per-call inspection rules and the adaptation
// decision to a completed round.
type Validator struct {
	// threshold is the (high+critical)/total ratio that triggers
	// adaptation.
	threshold float64
}

// NewValidator creates a Validator with the default threshold.
func NewValidator() *Validator {
	return &Validator{threshold: DefaultAdaptationThreshold}
}

// SetThreshold overrides the adaptation ratio threshold. Values outside
// (0, 1] are ignored.
func (v *Validator) SetThreshold(t float64) {
	if t > 0 && t <= 1 {
		v.threshold = t
	}
}

// Analyze inspects each call's result independently and derives the
// adaptation decision:
//   - any critical issue forces adaptation;
//   - (high+critical)/total at or above the threshold forces adaptation;
//   - a single no_results finding forces adaptation on its own, since one
//     unavailable-dates signal is enough to warrant trying alternatives.
func (v *Validator) Analyze(userMessage, plannedAction string, calls []models.ToolCall, results map[string]models.ToolResult) Report {
	var report Report

	for _, tc := range calls {
		result, ok := results[tc.ID]
		if !ok {
			continue
		}
		if issue, found := inspect(tc, result); found {
			report.Issues = append(report.Issues, issue)
		}
	}

	report.NeedsAdaptation = v.decide(report.Issues, len(calls))
	if report.NeedsAdaptation {
		report.Feedback = buildFeedback(userMessage, plannedAction, report.Issues, calls, results)
	}
	return report
}

// inspect applies the per-call rules in priority order.
func inspect(tc models.ToolCall, result models.ToolResult) (Issue, bool) {
	if result.IsError() {
		return Issue{
			Kind:      IssueError,
			SubjectID: tc.ID,
			Message:   fmt.Sprintf("tool %s failed: %s", tc.Tool, result.Err),
			Severity:  SeverityCritical,
		}, true
	}

	if isListingQuery(tc.Tool) && result.Kind == models.ResultListing && len(result.Options) == 0 {
		return Issue{
			Kind:      IssueNoResults,
			SubjectID: tc.ID,
			Message:   fmt.Sprintf("tool %s returned no options", tc.Tool),
			Severity:  SeverityHigh,
		}, true
	}

	if result.IsEmpty() {
		return Issue{
			Kind:      IssueEmptyResult,
			SubjectID: tc.ID,
			Message:   fmt.Sprintf("tool %s returned an empty payload", tc.Tool),
			Severity:  SeverityMedium,
		}, true
	}

	return Issue{}, false
}

// isListingQuery recognizes availability/listing tools by naming
// convention.
func isListingQuery(toolName string) bool {
	name := strings.ToLower(toolName)
	return strings.Contains(name, "availability") || strings.Contains(name, "get_rooms")
}

func (v *Validator) decide(issues []Issue, totalCalls int) bool {
	if totalCalls == 0 {
		return false
	}

	var weighted int
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical:
			return true
		case SeverityHigh:
			weighted++
		}
		if issue.Kind == IssueNoResults {
			return true
		}
	}

	return float64(weighted)/float64(totalCalls) >= v.threshold
}
