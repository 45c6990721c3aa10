package step

import (
	"fmt"
	"strings"
	"time"
)

// Error codes for provisioning failures.
const (
	CodeUnsupportedEnvironment = "UNSUPPORTED_ENVIRONMENT"
	CodeMissingDependency      = "MISSING_DEPENDENCY"
	CodeInstallFailed          = "INSTALL_FAILED"
	CodeReadinessTimeout       = "READINESS_TIMEOUT"
	CodeAbortedDependency      = "ABORTED_DUE_TO_DEPENDENCY"
	CodeGraphInvalid           = "GRAPH_INVALID"
)

// StepError is a provisioning error with a stable code, the step it
// belongs to, and an actionable suggestion.
type StepError struct {
	Code       string // stable code for categorization
	Message    string // user-facing message
	StepID     string // step ID if applicable
	Suggestion string // actionable suggestion to fix the error
	Underlying error  // wrapped cause
}

// Error returns the formatted error message.
func (e *StepError) Error() string {
	msg := e.Message
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Underlying)
	}
	if e.StepID != "" {
		return fmt.Sprintf("step %q: %s", e.StepID, msg)
	}
	return msg
}

// Unwrap returns the underlying error for error chain support.
func (e *StepError) Unwrap() error {
	return e.Underlying
}

// Format returns a fully formatted error with all details.
func (e *StepError) Format() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.StepID != "" {
		b.WriteString(fmt.Sprintf("\n  Step: %s", e.StepID))
	}
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  Suggestion: %s", e.Suggestion))
	}
	if e.Underlying != nil {
		b.WriteString(fmt.Sprintf("\n  Cause: %s", e.Underlying.Error()))
	}

	return b.String()
}

// NewUnsupportedEnvironmentError reports a host OS outside the
// supported Debian/Ubuntu family.
func NewUnsupportedEnvironmentError(osID string, cause error) *StepError {
	return &StepError{
		Code:       CodeUnsupportedEnvironment,
		Message:    fmt.Sprintf("operating system %q is not supported", osID),
		Suggestion: "kindling only provisions Debian/Ubuntu-derived development containers.",
		Underlying: cause,
	}
}

// NewMissingDependencyError reports a required external command that
// is absent from PATH.
func NewMissingDependencyError(stepID, command string) *StepError {
	return &StepError{
		Code:       CodeMissingDependency,
		Message:    fmt.Sprintf("required command %q not found", command),
		StepID:     stepID,
		Suggestion: fmt.Sprintf("Install %s or re-run kindling to retry the step that provides it.", command),
	}
}

// NewInstallFailedError reports a failed external install action.
func NewInstallFailedError(stepID string, cause error) *StepError {
	return &StepError{
		Code:       CodeInstallFailed,
		Message:    "install action failed",
		StepID:     stepID,
		Suggestion: "Check the captured output and re-run 'kindling up'; completed steps will be skipped.",
		Underlying: cause,
	}
}

// NewReadinessTimeoutError reports an external service that did not
// become ready within its bound.
func NewReadinessTimeoutError(stepID string, timeout time.Duration, cause error) *StepError {
	return &StepError{
		Code:       CodeReadinessTimeout,
		Message:    fmt.Sprintf("not ready after %s", timeout),
		StepID:     stepID,
		Suggestion: "Inspect the service logs and re-run 'kindling up' once the underlying issue is fixed.",
		Underlying: cause,
	}
}

// NewAbortedError reports a step skipped because an upstream
// dependency failed.
func NewAbortedError(stepID, failedDep string) *StepError {
	return &StepError{
		Code:       CodeAbortedDependency,
		Message:    fmt.Sprintf("aborted: dependency %q failed", failedDep),
		StepID:     stepID,
		Suggestion: "Fix the failed dependency; this step will run on the next attempt.",
	}
}
