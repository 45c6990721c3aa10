package step

// Status represents the state of a step within one run.
type Status string

const (
	// StatusPending indicates the step has not been attempted yet.
	StatusPending Status = "pending"
	// StatusRunning indicates the step's action is executing.
	StatusRunning Status = "running"
	// StatusSkipped indicates the step's goal state already held, so
	// its action was not invoked.
	StatusSkipped Status = "skipped"
	// StatusSucceeded indicates the step's action completed and its
	// postcondition (if any) verified.
	StatusSucceeded Status = "succeeded"
	// StatusFailed indicates the step's action or postcondition failed.
	StatusFailed Status = "failed"
	// StatusAborted indicates the step was not attempted because an
	// upstream dependency failed.
	StatusAborted Status = "aborted"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if this status is a final state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSkipped, StatusSucceeded, StatusFailed, StatusAborted:
		return true
	case StatusPending, StatusRunning:
		return false
	}
	return false
}

// IsFailure returns true if this status represents a failed or
// dependency-aborted outcome.
func (s Status) IsFailure() bool {
	return s == StatusFailed || s == StatusAborted
}
