package execution

import "github.com/kindling-sh/kindling/internal/domain/step"

// PlanEntry describes one step in a dry-run plan: the step itself and
// whether its goal state already holds.
type PlanEntry struct {
	step      step.Step
	satisfied bool
	checkErr  error
}

// NewPlanEntry creates an entry for one probed step.
func NewPlanEntry(s step.Step, satisfied bool, checkErr error) PlanEntry {
	return PlanEntry{step: s, satisfied: satisfied, checkErr: checkErr}
}

// Step returns the planned step.
func (e PlanEntry) Step() step.Step {
	return e.step
}

// Satisfied reports whether the step's precondition already holds, so
// the step would be skipped.
func (e PlanEntry) Satisfied() bool {
	return e.satisfied
}

// CheckErr returns the error the precondition probe reported, if any.
func (e PlanEntry) CheckErr() error {
	return e.checkErr
}

// Plan is an ordered dry-run of a provisioning graph.
type Plan struct {
	entries []PlanEntry
}

// NewPlan creates a plan from ordered entries.
func NewPlan(entries []PlanEntry) Plan {
	copied := make([]PlanEntry, len(entries))
	copy(copied, entries)
	return Plan{entries: copied}
}

// Entries returns the plan's entries in execution order.
func (p Plan) Entries() []PlanEntry {
	entries := make([]PlanEntry, len(p.entries))
	copy(entries, p.entries)
	return entries
}

// Len returns the number of planned steps.
func (p Plan) Len() int {
	return len(p.entries)
}

// PendingCount returns the number of steps whose action would run.
func (p Plan) PendingCount() int {
	count := 0
	for _, e := range p.entries {
		if !e.satisfied {
			count++
		}
	}
	return count
}

// AllSatisfied reports whether every step would be skipped.
func (p Plan) AllSatisfied() bool {
	return p.PendingCount() == 0
}
