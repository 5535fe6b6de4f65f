package tools

import (
	"errors"
	"testing"
)

func availabilitySchema() Schema {
	return Schema{
		"check_in":  {Type: ArgString, Required: true},
		"check_out": {Type: ArgString, Required: true},
		"guests":    {Type: ArgInt},
	}
}

func TestValidateAccepts(t *testing.T) {
	s := availabilitySchema()

	cases := []map[string]any{
		{"check_in": "2026-09-04", "check_out": "2026-09-06"},
		{"check_in": "2026-09-04", "check_out": "2026-09-06", "guests": 2},
		// JSON numbers arrive as float64.
		{"check_in": "2026-09-04", "check_out": "2026-09-06", "guests": float64(2)},
		// Optional args may be nil.
		{"check_in": "2026-09-04", "check_out": "2026-09-06", "guests": nil},
	}
	for _, args := range cases {
		if err := s.Validate(args); err != nil {
			t.Errorf("Validate(%v) = %v, want nil", args, err)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	s := availabilitySchema()

	cases := []struct {
		name string
		args map[string]any
	}{
		{"missing required", map[string]any{"check_in": "2026-09-04"}},
		{"nil required", map[string]any{"check_in": "2026-09-04", "check_out": nil}},
		{"unknown key", map[string]any{"check_in": "a", "check_out": "b", "room": "suite"}},
		{"wrong type", map[string]any{"check_in": 5, "check_out": "b"}},
		{"fractional int", map[string]any{"check_in": "a", "check_out": "b", "guests": 2.5}},
	}
	for _, tc := range cases {
		err := s.Validate(tc.args)
		if !errors.Is(err, ErrInvalidArgs) {
			t.Errorf("%s: err = %v, want ErrInvalidArgs", tc.name, err)
		}
	}
}

func TestIntArg(t *testing.T) {
	args := map[string]any{"a": 3, "b": float64(4), "c": "x", "d": nil}

	if got := IntArg(args, "a", 0); got != 3 {
		t.Errorf("IntArg(a) = %d", got)
	}
	if got := IntArg(args, "b", 0); got != 4 {
		t.Errorf("IntArg(b) = %d", got)
	}
	if got := IntArg(args, "c", 7); got != 7 {
		t.Errorf("IntArg(c) = %d, want fallback", got)
	}
	if got := IntArg(args, "d", 7); got != 7 {
		t.Errorf("IntArg(d) = %d, want fallback", got)
	}
	if got := IntArg(args, "missing", 7); got != 7 {
		t.Errorf("IntArg(missing) = %d, want fallback", got)
	}
}

func TestStringArg(t *testing.T) {
	args := map[string]any{"a": "x", "b": 1, "c": nil}

	if got := StringArg(args, "a"); got != "x" {
		t.Errorf("StringArg(a) = %q", got)
	}
	if got := StringArg(args, "b"); got != "" {
		t.Errorf("StringArg(b) = %q", got)
	}
	if got := StringArg(args, "c"); got != "" {
		t.Errorf("StringArg(c) = %q", got)
	}
}
