// Package execution plans and runs provisioning graphs and records
// their outcomes.
package execution

import (
	"time"

	"github.com/kindling-sh/kindling/internal/domain/step"
)

// StepResult records the outcome of a single step within a run.
type StepResult struct {
	stepID   step.ID
	status   step.Status
	err      error
	duration time.Duration
	advisory bool
}

// NewStepResult creates a StepResult with the given ID and status.
func NewStepResult(stepID step.ID, status step.Status) StepResult {
	return StepResult{stepID: stepID, status: status}
}

// WithError returns a copy with the error set.
func (r StepResult) WithError(err error) StepResult {
	r.err = err
	return r
}

// WithDuration returns a copy with the duration set.
func (r StepResult) WithDuration(d time.Duration) StepResult {
	r.duration = d
	return r
}

// WithAdvisory returns a copy marked as advisory.
func (r StepResult) WithAdvisory(advisory bool) StepResult {
	r.advisory = advisory
	return r
}

// StepID returns the step's identifier.
func (r StepResult) StepID() step.ID {
	return r.stepID
}

// Status returns the step's terminal status.
func (r StepResult) Status() step.Status {
	return r.status
}

// Err returns the error that failed or aborted the step, if any.
func (r StepResult) Err() error {
	return r.err
}

// Duration returns how long the step's action took.
func (r StepResult) Duration() time.Duration {
	return r.duration
}

// Advisory reports whether this result came from an advisory step
// whose failure does not fail the run.
func (r StepResult) Advisory() bool {
	return r.advisory
}

// Fatal reports whether this result fails the run. Advisory failures
// are warnings, not fatal.
func (r StepResult) Fatal() bool {
	return r.status.IsFailure() && !r.advisory
}
