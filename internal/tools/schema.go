package tools

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidArgs indicates arguments that violate a tool's schema.
var ErrInvalidArgs = errors.New("invalid arguments")

// ArgType is the expected scalar type of a tool argument.
type ArgType string

const (
	// ArgString expects a string value.
	ArgString ArgType = "string"
	// ArgInt expects an integer value.
	ArgInt ArgType = "int"
	// ArgBool expects a boolean value.
	ArgBool ArgType = "bool"
)

// ArgSpec describes one argument accepted by a tool.
type ArgSpec struct {
	// Type is the expected scalar type.
	Type ArgType
	// Required marks arguments that must be present and non-nil.
	Required bool
	// Description documents the argument for the planner prompt.
	Description string
}

// Schema is the typed argument schema for a tool, keyed by argument name.
type Schema map[string]ArgSpec

// Validate checks args against the schema. Unknown keys are rejected,
// required keys must be present with a non-nil value, and present values
// must match the declared type. JSON numbers arrive as float64 and are
// accepted for int arguments when integral.
func (s Schema) Validate(args map[string]any) error {
	for name := range args {
		if _, ok := s[name]; !ok {
			return fmt.Errorf("%w: unexpected argument %q", ErrInvalidArgs, name)
		}
	}

	var missing []string
	for name, spec := range s {
		v, present := args[name]
		if !present || v == nil {
			if spec.Required {
				missing = append(missing, name)
			}
			continue
		}
		if err := checkType(name, spec.Type, v); err != nil {
			return err
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: missing required argument(s) %s", ErrInvalidArgs, strings.Join(missing, ", "))
	}
	return nil
}

func checkType(name string, want ArgType, v any) error {
	switch want {
	case ArgString:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%w: argument %q must be a string", ErrInvalidArgs, name)
		}
	case ArgInt:
		switch n := v.(type) {
		case int, int64:
			// ok
		case float64:
			if n != float64(int64(n)) {
				return fmt.Errorf("%w: argument %q must be an integer", ErrInvalidArgs, name)
			}
		default:
			return fmt.Errorf("%w: argument %q must be an integer", ErrInvalidArgs, name)
		}
	case ArgBool:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("%w: argument %q must be a boolean", ErrInvalidArgs, name)
		}
	}
	return nil
}

// IntArg extracts an integer argument, accepting JSON float64 encoding.
// Returns the fallback when the argument is absent or nil.
func IntArg(args map[string]any, name string, fallback int) int {
	v, ok := args[name]
	if !ok || v == nil {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return fallback
	}
}

// StringArg extracts a string argument, returning "" when absent or nil.
func StringArg(args map[string]any, name string) string {
	v, ok := args[name]
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
