// Package step defines the provisioning step model: idempotent units
// of work with precondition checks, arranged in a dependency graph.
package step

// Step is an idempotent unit of provisioning work.
// A step declares a precondition (Check); when the precondition
// already holds the step is skipped and Apply is never invoked.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() ID

	// DependsOn returns the IDs of steps that must complete before this one.
	DependsOn() []ID

	// Check reports whether the step's goal state already holds.
	// Probe failures that simply mean "not yet provisioned" should be
	// reported as (false, nil); only genuine faults return an error.
	Check(ctx RunContext) (bool, error)

	// Apply performs the step's action. It must be safe to re-run.
	Apply(ctx RunContext) error

	// Explain returns human-readable context for this step.
	Explain() Explanation
}

// VerifiableStep extends Step with an authoritative postcondition.
// After a successful Apply the executor calls Verify; a Verify error
// classifies the step as failed even when the action itself reported
// success.
type VerifiableStep interface {
	Step

	// Verify confirms the step's goal state after Apply.
	Verify(ctx RunContext) error
}

// AdvisoryStep marks a step whose failure is reported as a warning
// rather than failing the run or aborting dependents.
type AdvisoryStep interface {
	Step

	// Advisory returns true when failure of this step is non-fatal.
	Advisory() bool
}

// AsVerifiable attempts to cast a step to VerifiableStep.
// Returns nil if the step has no postcondition.
func AsVerifiable(s Step) VerifiableStep {
	if v, ok := s.(VerifiableStep); ok {
		return v
	}
	return nil
}

// IsAdvisory reports whether a step's failure is non-fatal.
func IsAdvisory(s Step) bool {
	if a, ok := s.(AdvisoryStep); ok {
		return a.Advisory()
	}
	return false
}

// Provider contributes a related group of steps to the provisioning graph.
type Provider interface {
	// Name returns the provider's identifier (e.g., "apt", "docker").
	Name() string

	// Compile returns the provider's steps. Cross-provider ordering is
	// expressed through Step.DependsOn.
	Compile() ([]Step, error)
}
