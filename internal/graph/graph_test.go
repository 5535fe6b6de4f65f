package graph

import (
	"errors"
	"testing"

	"github.com/guestflow/concierge/pkg/models"
)

func call(id string, needs ...string) models.ToolCall {
	return models.ToolCall{ID: id, Tool: "check_availability", Needs: needs}
}

func waveIDs(wave []models.ToolCall) []string {
	ids := make([]string, 0, len(wave))
	for _, tc := range wave {
		ids = append(ids, tc.ID)
	}
	return ids
}

func TestWavesLayering(t *testing.T) {
	g := New()
	if err := g.Build([]models.ToolCall{
		call("a"),
		call("b"),
		call("c", "a", "b"),
		call("d", "c"),
	}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	waves, err := g.Waves()
	if err != nil {
		t.Fatalf("Waves: %v", err)
	}

	want := [][]string{{"a", "b"}, {"c"}, {"d"}}
	if len(waves) != len(want) {
		t.Fatalf("got %d waves, want %d", len(waves), len(want))
	}
	for i, wave := range waves {
		got := waveIDs(wave)
		if len(got) != len(want[i]) {
			t.Fatalf("wave %d = %v, want %v", i, got, want[i])
		}
		for j := range got {
			if got[j] != want[i][j] {
				t.Errorf("wave %d = %v, want %v", i, got, want[i])
				break
			}
		}
	}
}

func TestWavesSingleWaveWhenIndependent(t *testing.T) {
	g := New()
	if err := g.Build([]models.ToolCall{call("a"), call("b"), call("c")}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	waves, err := g.Waves()
	if err != nil {
		t.Fatalf("Waves: %v", err)
	}
	if len(waves) != 1 || len(waves[0]) != 3 {
		t.Errorf("independent calls should form one wave of 3, got %v", waves)
	}
}

func TestWavesPreserveDeclarationOrder(t *testing.T) {
	g := New()
	if err := g.Build([]models.ToolCall{call("z"), call("m"), call("a")}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	waves, err := g.Waves()
	if err != nil {
		t.Fatalf("Waves: %v", err)
	}
	got := waveIDs(waves[0])
	want := []string{"z", "m", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("wave order = %v, want declaration order %v", got, want)
		}
	}
}

func TestBuildRejectsDanglingDependency(t *testing.T) {
	g := New()
	err := g.Build([]models.ToolCall{call("a", "ghost")})
	if !errors.Is(err, ErrDanglingDependency) {
		t.Errorf("err = %v, want ErrDanglingDependency", err)
	}
}

func TestBuildRejectsDuplicateIDs(t *testing.T) {
	g := New()
	if err := g.Build([]models.ToolCall{call("a"), call("a")}); err == nil {
		t.Error("duplicate IDs should be rejected")
	}
}

func TestWavesDetectCycle(t *testing.T) {
	g := New()
	if err := g.Build([]models.ToolCall{call("x", "y"), call("y", "x")}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	_, err := g.Waves()
	if !errors.Is(err, ErrCycleDetected) {
		t.Errorf("err = %v, want ErrCycleDetected", err)
	}
}

func TestWavesDetectCycleBehindValidPrefix(t *testing.T) {
	g := New()
	if err := g.Build([]models.ToolCall{
		call("a"),
		call("x", "a", "y"),
		call("y", "x"),
	}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	_, err := g.Waves()
	if !errors.Is(err, ErrCycleDetected) {
		t.Errorf("err = %v, want ErrCycleDetected", err)
	}
}

func TestDependenciesAndDependents(t *testing.T) {
	g := New()
	if err := g.Build([]models.ToolCall{call("a"), call("b", "a")}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if deps := g.Dependencies("b"); len(deps) != 1 || deps[0] != "a" {
		t.Errorf("Dependencies(b) = %v", deps)
	}
	if deps := g.Dependents("a"); len(deps) != 1 || deps[0] != "b" {
		t.Errorf("Dependents(a) = %v", deps)
	}
	if g.Size() != 2 {
		t.Errorf("Size = %d, want 2", g.Size())
	}
}
