package execution

import (
	"time"

	"github.com/google/uuid"

	"github.com/kindling-sh/kindling/internal/domain/step"
)

// RunReport aggregates the outcome of one provisioning run.
type RunReport struct {
	id         string
	platform   string
	results    []StepResult
	startedAt  time.Time
	finishedAt time.Time
}

// NewRunReport creates a report for a finished run.
func NewRunReport(platform string, results []StepResult, startedAt, finishedAt time.Time) RunReport {
	copied := make([]StepResult, len(results))
	copy(copied, results)
	return RunReport{
		id:         uuid.New().String(),
		platform:   platform,
		results:    copied,
		startedAt:  startedAt,
		finishedAt: finishedAt,
	}
}

// ID returns the unique run identifier.
func (r RunReport) ID() string {
	return r.id
}

// Platform returns a description of the detected host platform.
func (r RunReport) Platform() string {
	return r.platform
}

// Results returns the per-step results in execution order.
func (r RunReport) Results() []StepResult {
	results := make([]StepResult, len(r.results))
	copy(results, r.results)
	return results
}

// StartedAt returns when the run began.
func (r RunReport) StartedAt() time.Time {
	return r.startedAt
}

// Duration returns the total run duration.
func (r RunReport) Duration() time.Duration {
	return r.finishedAt.Sub(r.startedAt)
}

// Succeeded reports whether the run had no fatal failures. Advisory
// failures are warnings and do not count.
func (r RunReport) Succeeded() bool {
	for _, res := range r.results {
		if res.Fatal() {
			return false
		}
	}
	return true
}

// FirstFailure returns the first fatal result, or nil.
func (r RunReport) FirstFailure() *StepResult {
	for _, res := range r.results {
		if res.Fatal() {
			failure := res
			return &failure
		}
	}
	return nil
}

// Summary counts results per terminal status.
type Summary struct {
	Skipped   int
	Succeeded int
	Failed    int
	Aborted   int
	Warnings  int
}

// Summary tallies the run's results. Advisory failures count as
// warnings, not failures.
func (r RunReport) Summary() Summary {
	var s Summary
	for _, res := range r.results {
		switch res.Status() {
		case step.StatusSkipped:
			s.Skipped++
		case step.StatusSucceeded:
			s.Succeeded++
		case step.StatusFailed:
			if res.Advisory() {
				s.Warnings++
			} else {
				s.Failed++
			}
		case step.StatusAborted:
			if res.Advisory() {
				s.Warnings++
			} else {
				s.Aborted++
			}
		case step.StatusPending, step.StatusRunning:
		}
	}
	return s
}
