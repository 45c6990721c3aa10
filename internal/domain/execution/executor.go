package execution

import (
	"fmt"
	"time"

	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/ports"
)

// Executor runs a provisioning graph sequentially in dependency order.
//
// For each step: if a dependency failed, the step is aborted without
// being attempted; if its precondition already holds, it is skipped;
// otherwise its action runs, followed by its postcondition when it
// declares one. The postcondition is authoritative: a failing Verify
// marks the step failed even when the action reported success.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Execute runs every step in the graph and returns one result per
// step, in execution order. A step failure does not stop the run;
// unaffected branches still execute, while transitive dependents of
// the failure are aborted.
func (e *Executor) Execute(ctx step.RunContext, g *step.Graph) ([]StepResult, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid provisioning graph: %w", err)
	}

	sorted, err := g.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("invalid provisioning graph: %w", err)
	}

	// Step ID -> the dependency that caused its failure chain.
	failed := make(map[string]string)

	results := make([]StepResult, 0, len(sorted))
	for _, s := range sorted {
		if ctxErr := ctx.Context().Err(); ctxErr != nil {
			return results, ctxErr
		}

		results = append(results, e.runStep(ctx, s, failed))
	}

	return results, nil
}

func (e *Executor) runStep(ctx step.RunContext, s step.Step, failed map[string]string) StepResult {
	id := s.ID()
	advisory := step.IsAdvisory(s)

	for _, dep := range s.DependsOn() {
		if origin, ok := failed[dep.String()]; ok {
			e.logger.Warn(ctx.Context(), "step aborted",
				ports.F("step", id.String()),
				ports.F("failed_dependency", dep.String()))
			failed[id.String()] = origin
			return NewStepResult(id, step.StatusAborted).
				WithError(step.NewAbortedError(id.String(), dep.String())).
				WithAdvisory(advisory)
		}
	}

	satisfied, checkErr := s.Check(ctx)
	if checkErr != nil {
		e.logger.Error(ctx.Context(), "precondition probe failed",
			ports.F("step", id.String()),
			ports.F("error", checkErr.Error()))
		return e.failure(id, checkErr, advisory, failed)
	}

	if satisfied {
		e.logger.Info(ctx.Context(), "step skipped, already satisfied",
			ports.F("step", id.String()))
		return NewStepResult(id, step.StatusSkipped).WithAdvisory(advisory)
	}

	e.logger.Info(ctx.Context(), "step running",
		ports.F("step", id.String()),
		ports.F("summary", s.Explain().Summary()))

	start := time.Now()
	if applyErr := s.Apply(ctx); applyErr != nil {
		e.logger.Error(ctx.Context(), "step failed",
			ports.F("step", id.String()),
			ports.F("error", applyErr.Error()))
		return e.failure(id, applyErr, advisory, failed).WithDuration(time.Since(start))
	}

	if v := step.AsVerifiable(s); v != nil {
		if verifyErr := v.Verify(ctx); verifyErr != nil {
			e.logger.Error(ctx.Context(), "step postcondition failed",
				ports.F("step", id.String()),
				ports.F("error", verifyErr.Error()))
			return e.failure(id, verifyErr, advisory, failed).WithDuration(time.Since(start))
		}
	}

	e.logger.Info(ctx.Context(), "step succeeded",
		ports.F("step", id.String()),
		ports.F("duration", time.Since(start).Round(time.Millisecond).String()))

	return NewStepResult(id, step.StatusSucceeded).
		WithDuration(time.Since(start)).
		WithAdvisory(advisory)
}

// failure builds a failed result. Advisory failures stay out of the
// failed set so dependents still run.
func (e *Executor) failure(id step.ID, err error, advisory bool, failed map[string]string) StepResult {
	if !advisory {
		failed[id.String()] = id.String()
	}
	return NewStepResult(id, step.StatusFailed).
		WithError(err).
		WithAdvisory(advisory)
}
