package orchestrator

import "sync"

// BudgetStatus represents the current state of the tool-volume budget.
type BudgetStatus int

const (
	// BudgetOK indicates usage is below the warning threshold (<80%).
	BudgetOK BudgetStatus = iota
	// BudgetWarning indicates usage is between warning and exhaustion.
	BudgetWarning
	// BudgetExhausted indicates the budget is fully consumed.
	BudgetExhausted
)

// String returns a human-readable representation of the budget status.
func (s BudgetStatus) String() string {
	switch s {
	case BudgetOK:
		return "OK"
	case BudgetWarning:
		return "Warning"
	case BudgetExhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}

// DefaultWarningThreshold is the usage fraction at which warnings begin.
const DefaultWarningThreshold = 0.80

// ToolBudget caps the total number of tool calls one run may execute
// across its initial plan and all adaptation turns.
type ToolBudget struct {
	// budget is the maximum allowed tool calls.
	budget int
	// used is the number of calls executed so far.
	used int
	// mu protects mutable state.
	mu sync.RWMutex
}

// NewToolBudget creates a ToolBudget with the given cap.
func NewToolBudget(budget int) *ToolBudget {
	return &ToolBudget{budget: budget}
}

// Spend records that n tool calls were executed.
func (b *ToolBudget) Spend(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.used += n
}

// Used returns the number of calls executed so far.
func (b *ToolBudget) Used() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.used
}

// Remaining returns how many more calls the run may execute.
func (b *ToolBudget) Remaining() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.used >= b.budget {
		return 0
	}
	return b.budget - b.used
}

// Check returns the current budget status.
func (b *ToolBudget) Check() BudgetStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.budget <= 0 || b.used >= b.budget {
		return BudgetExhausted
	}
	if float64(b.used)/float64(b.budget) >= DefaultWarningThreshold {
		return BudgetWarning
	}
	return BudgetOK
}
