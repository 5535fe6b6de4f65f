package models

import (
	"errors"
	"testing"
)

func TestResultConstructors(t *testing.T) {
	if r := ErrorResult("boom"); r.Kind != ResultError || r.Err != "boom" || !r.IsError() {
		t.Errorf("ErrorResult = %+v", r)
	}
	if r := ListingResult([]map[string]any{{"a": 1}}); r.Kind != ResultListing || len(r.Options) != 1 {
		t.Errorf("ListingResult = %+v", r)
	}
	if r := ScalarResult("hi"); r.Kind != ResultScalar || r.Value != "hi" {
		t.Errorf("ScalarResult = %+v", r)
	}
	if r := StructuredResult(map[string]any{"k": "v"}); r.Kind != ResultStructured || r.Fields["k"] != "v" {
		t.Errorf("StructuredResult = %+v", r)
	}
}

func TestResultIsEmpty(t *testing.T) {
	cases := []struct {
		name string
		res  ToolResult
		want bool
	}{
		{"nil listing", ListingResult(nil), true},
		{"empty listing", ListingResult([]map[string]any{}), true},
		{"populated listing", ListingResult([]map[string]any{{"a": 1}}), false},
		{"nil scalar", ScalarResult(nil), true},
		{"empty string scalar", ScalarResult(""), true},
		{"zero int scalar", ScalarResult(0), false},
		{"text scalar", ScalarResult("answer"), false},
		{"empty structured", StructuredResult(nil), true},
		{"populated structured", StructuredResult(map[string]any{"k": 1}), false},
		{"error is never empty", ErrorResult(""), false},
	}
	for _, tc := range cases {
		if got := tc.res.IsEmpty(); got != tc.want {
			t.Errorf("%s: IsEmpty = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestResultField(t *testing.T) {
	r := StructuredResult(map[string]any{"check_in": "2026-09-04"})

	if v, ok := r.Field("check_in"); !ok || v != "2026-09-04" {
		t.Errorf("Field(check_in) = %v, %v", v, ok)
	}
	if _, ok := r.Field("check_out"); ok {
		t.Error("Field found a missing key")
	}
	if _, ok := ScalarResult("x").Field("check_in"); ok {
		t.Error("scalar result exposed a field")
	}
}

func TestResultKindValid(t *testing.T) {
	for _, k := range []ResultKind{ResultError, ResultListing, ResultScalar, ResultStructured} {
		if !k.Valid() {
			t.Errorf("%s reported invalid", k)
		}
	}
	if ResultKind("surprise").Valid() {
		t.Error("unknown kind reported valid")
	}
}

func TestOutcomeConstructors(t *testing.T) {
	results := map[string]ToolResult{"a": ScalarResult("x")}

	ok := OK("check_availability", results)
	if ok.Kind != OutcomeOK || ok.Action != "check_availability" || ok.IsCancelled() || ok.IsFatal() {
		t.Errorf("OK = %+v", ok)
	}

	c := Cancelled(results, "superseded", 2)
	if !c.IsCancelled() || c.Action != ActionCancelled || c.WaveIndex != 2 || c.Reason != "superseded" {
		t.Errorf("Cancelled = %+v", c)
	}
	if len(c.Results) != 1 {
		t.Error("Cancelled dropped partial results")
	}

	f := Fatal(errors.New("cycle detected"))
	if !f.IsFatal() || f.Err == nil {
		t.Errorf("Fatal = %+v", f)
	}
}

func TestPlanCallIDs(t *testing.T) {
	p := &Plan{Tools: []ToolCall{{ID: "dates_1"}, {ID: "avail_1"}, {ID: "faq_1"}}}

	got := p.CallIDs()
	want := []string{"dates_1", "avail_1", "faq_1"}
	if len(got) != len(want) {
		t.Fatalf("CallIDs = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CallIDs[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := (&Plan{}).CallIDs(); len(got) != 0 {
		t.Errorf("empty plan CallIDs = %v", got)
	}
}
