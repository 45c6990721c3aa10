package execution

import (
	"fmt"

	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/ports"
)

// Planner produces a dry-run plan for a provisioning graph by probing
// each step's precondition without applying anything.
type Planner struct {
	logger ports.Logger
}

// NewPlanner creates a Planner.
func NewPlanner(logger ports.Logger) *Planner {
	return &Planner{logger: logger}
}

// Plan validates and sorts the graph, then probes each step's
// precondition in order. Probe faults are recorded on the entry, not
// fatal: the plan still shows the step as pending.
func (p *Planner) Plan(ctx step.RunContext, g *step.Graph) (Plan, error) {
	if err := g.Validate(); err != nil {
		return Plan{}, fmt.Errorf("invalid provisioning graph: %w", err)
	}

	sorted, err := g.TopologicalSort()
	if err != nil {
		return Plan{}, fmt.Errorf("invalid provisioning graph: %w", err)
	}

	entries := make([]PlanEntry, 0, len(sorted))
	for _, s := range sorted {
		satisfied, checkErr := s.Check(ctx)
		if checkErr != nil {
			p.logger.Warn(ctx.Context(), "precondition probe failed",
				ports.F("step", s.ID().String()),
				ports.F("error", checkErr.Error()))
			satisfied = false
		}

		entries = append(entries, NewPlanEntry(s, satisfied, checkErr))
	}

	return NewPlan(entries), nil
}
