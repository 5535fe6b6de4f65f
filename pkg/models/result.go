package models

// ResultKind identifies the variant of a ToolResult. The variant is
// decided once, at the tool-registry boundary, so downstream logic can
// match on a closed set instead of inspecting payload shapes at runtime.
type ResultKind string

const (
	// ResultError indicates the tool raised an error or timed out.
	ResultError ResultKind = "error"
	// ResultListing indicates a list-of-options payload (availability,
	// room listings, and similar queries).
	ResultListing ResultKind = "listing"
	// ResultScalar indicates a single scalar payload.
	ResultScalar ResultKind = "scalar"
	// ResultStructured indicates a named-field payload.
	ResultStructured ResultKind = "structured"
)

// Valid returns true if the kind is a known value.
func (k ResultKind) Valid() bool {
	switch k {
	case ResultError, ResultListing, ResultScalar, ResultStructured:
		return true
	default:
		return false
	}
}

// ToolResult is the outcome of a single tool call, keyed by the call's ID
// in a run's result map. Once written for an ID it is never mutated;
// later waves only read prior-wave results.
type ToolResult struct {
	// Kind selects which of the payload fields below is meaningful.
	Kind ResultKind `json:"kind"`
	// Err holds the error message for ResultError.
	Err string `json:"error,omitempty"`
	// Options holds the option rows for ResultListing.
	Options []map[string]any `json:"options,omitempty"`
	// Value holds the payload for ResultScalar.
	Value any `json:"value,omitempty"`
	// Fields holds the named payload for ResultStructured.
	Fields map[string]any `json:"fields,omitempty"`
}

// ErrorResult builds a ResultError record.
func ErrorResult(msg string) ToolResult {
	return ToolResult{Kind: ResultError, Err: msg}
}

// ListingResult builds a ResultListing record.
func ListingResult(options []map[string]any) ToolResult {
	return ToolResult{Kind: ResultListing, Options: options}
}

// ScalarResult builds a ResultScalar record.
func ScalarResult(value any) ToolResult {
	return ToolResult{Kind: ResultScalar, Value: value}
}

// StructuredResult builds a ResultStructured record.
func StructuredResult(fields map[string]any) ToolResult {
	return ToolResult{Kind: ResultStructured, Fields: fields}
}

// IsError returns true for the error variant.
func (r ToolResult) IsError() bool {
	return r.Kind == ResultError
}

// IsEmpty returns true when the payload carries no information: an empty
// listing, a nil or empty scalar, or a structured record with no fields.
// Error records are never considered empty.
func (r ToolResult) IsEmpty() bool {
	switch r.Kind {
	case ResultListing:
		return len(r.Options) == 0
	case ResultScalar:
		if r.Value == nil {
			return true
		}
		s, ok := r.Value.(string)
		return ok && s == ""
	case ResultStructured:
		return len(r.Fields) == 0
	default:
		return false
	}
}

// Field looks up a named field in the payload. Only structured results
// expose fields; other variants always report absence. Used by the
// scheduler to substitute arguments from declared dependencies.
func (r ToolResult) Field(name string) (any, bool) {
	if r.Kind != ResultStructured {
		return nil, false
	}
	v, ok := r.Fields[name]
	return v, ok
}
