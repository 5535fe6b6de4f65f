// Package tools provides the tool registry the wave scheduler dispatches
// against, plus the built-in concierge tools. The registry is an explicit
// capability injected into the runtime; there is no package-level singleton.
package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/guestflow/concierge/pkg/models"
)

// ErrUnknownTool indicates a call referenced a tool name that is not
// registered.
var ErrUnknownTool = errors.New("unknown tool")

// Tool is one external, named operation. Implementations validate their own
// argument schema and decide the ToolResult variant for their payload at
// this boundary, so downstream logic never inspects payload shapes.
type Tool interface {
	// Name returns the registry key for this tool.
	Name() string
	// Schema describes the accepted arguments.
	Schema() Schema
	// Call executes the tool with schema-validated arguments.
	Call(ctx context.Context, args map[string]any) (models.ToolResult, error)
}

// Registry resolves tool names to tools and dispatches calls.
type Registry interface {
	// Lookup returns the tool for a name and whether it exists.
	Lookup(name string) (Tool, bool)
	// Call validates args against the tool's schema and executes it.
	Call(ctx context.Context, name string, args map[string]any) (models.ToolResult, error)
	// Names returns all registered tool names, sorted.
	Names() []string
}

// MapRegistry is the standard Registry backed by an in-memory map.
// Populated at process start, read-only afterwards.
type MapRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty MapRegistry.
func NewRegistry() *MapRegistry {
	return &MapRegistry{tools: make(map[string]Tool)}
}

// Register adds a tool. Returns an error on a duplicate name.
func (r *MapRegistry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.tools[name] = t
	return nil
}

// Lookup returns the tool for a name and whether it exists.
func (r *MapRegistry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Call validates the arguments against the tool's schema and executes it.
// Schema violations and unknown names surface as errors; the scheduler
// records any error uniformly as an error ToolResult.
func (r *MapRegistry) Call(ctx context.Context, name string, args map[string]any) (models.ToolResult, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return models.ToolResult{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if err := t.Schema().Validate(args); err != nil {
		return models.ToolResult{}, fmt.Errorf("tool %s: %w", name, err)
	}

	return t.Call(ctx, args)
}

// Names returns all registered tool names, sorted.
func (r *MapRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
