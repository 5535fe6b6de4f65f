// Package graph provides the dependency graph used to partition a plan's
// tool calls into execution waves.
package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/guestflow/concierge/pkg/models"
)

// ErrCycleDetected indicates a circular dependency in the call graph.
// A cycle makes the plan unusable; it is fatal and never retried.
var ErrCycleDetected = errors.New("circular dependency detected")

// ErrDanglingDependency indicates a needs entry referencing an ID that is
// not present in the plan. Treated identically to a cycle: the dependency
// can never be satisfied.
var ErrDanglingDependency = errors.New("dependency references unknown call")

// CallGraph represents a directed acyclic graph of tool-call dependencies.
// Calls are nodes; edges represent "needs the result of" relationships.
type CallGraph struct {
	mu sync.RWMutex
	// nodes maps call ID to the call itself.
	nodes map[string]models.ToolCall
	// order preserves the plan's declaration order for stable wave output.
	order []string
	// edges maps call ID to the IDs it depends on, in declaration order.
	edges map[string][]string
	// debugLog is an optional logging function.
	debugLog func(format string, args ...interface{})
}

// New creates a new empty call graph.
func New() *CallGraph {
	return &CallGraph{
		nodes:    make(map[string]models.ToolCall),
		edges:    make(map[string][]string),
		debugLog: func(format string, args ...interface{}) {},
	}
}

// SetDebugLog sets the debug logging function.
func (g *CallGraph) SetDebugLog(fn func(format string, args ...interface{})) {
	if fn != nil {
		g.debugLog = fn
	}
}

// Build constructs the graph from a plan's tool calls.
// Returns an error if an ID is duplicated or a needs entry references an
// unknown call. Cycles are reported by Waves, which computes the layering.
func (g *CallGraph) Build(calls []models.ToolCall) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.debugLog("[graph.Build] building graph from %d calls", len(calls))

	for _, tc := range calls {
		if _, exists := g.nodes[tc.ID]; exists {
			return fmt.Errorf("duplicate tool call id %q", tc.ID)
		}
		g.nodes[tc.ID] = tc
		g.order = append(g.order, tc.ID)
		g.edges[tc.ID] = nil
	}

	for _, tc := range calls {
		for _, depID := range tc.Needs {
			if _, exists := g.nodes[depID]; !exists {
				return fmt.Errorf("call %s needs %s: %w", tc.ID, depID, ErrDanglingDependency)
			}
			g.edges[tc.ID] = append(g.edges[tc.ID], depID)
		}
	}

	g.debugLog("[graph.Build] graph built with %d nodes", len(g.nodes))
	return nil
}

// Waves partitions the calls into ordered execution waves. Every ID in a
// call's needs appears in an earlier wave, and each call lands in the
// earliest wave its dependencies allow. If an iteration produces no ready
// calls while calls remain, the graph is cyclic and the stuck IDs are
// reported in the error.
func (g *CallGraph) Waves() ([][]models.ToolCall, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	satisfied := make(map[string]bool, len(g.nodes))
	remaining := make(map[string]bool, len(g.nodes))
	for id := range g.nodes {
		remaining[id] = true
	}

	var waves [][]models.ToolCall
	for len(remaining) > 0 {
		var wave []models.ToolCall
		for _, id := range g.order {
			if !remaining[id] {
				continue
			}
			ready := true
			for _, depID := range g.edges[id] {
				if !satisfied[depID] {
					ready = false
					break
				}
			}
			if ready {
				wave = append(wave, g.nodes[id])
			}
		}

		if len(wave) == 0 {
			stuck := make([]string, 0, len(remaining))
			for id := range remaining {
				stuck = append(stuck, id)
			}
			sort.Strings(stuck)
			return nil, fmt.Errorf("%w: stuck calls [%s]", ErrCycleDetected, strings.Join(stuck, ", "))
		}

		for _, tc := range wave {
			satisfied[tc.ID] = true
			delete(remaining, tc.ID)
		}
		g.debugLog("[graph.Waves] wave %d: %d calls", len(waves), len(wave))
		waves = append(waves, wave)
	}

	return waves, nil
}

// Size returns the number of calls in the graph.
func (g *CallGraph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Get returns the call for a given ID and whether it exists.
func (g *CallGraph) Get(id string) (models.ToolCall, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	tc, ok := g.nodes[id]
	return tc, ok
}

// Dependencies returns the IDs the given call depends on.
func (g *CallGraph) Dependencies(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges[id]
}

// Dependents returns the IDs of calls that depend on the given call.
func (g *CallGraph) Dependents(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dependents []string
	for _, candidate := range g.order {
		for _, depID := range g.edges[candidate] {
			if depID == id {
				dependents = append(dependents, candidate)
				break
			}
		}
	}
	return dependents
}
