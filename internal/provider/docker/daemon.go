package docker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/ports"
	"github.com/kindling-sh/kindling/internal/wait"
)

// daemonLogPath collects dockerd output for troubleshooting.
const daemonLogPath = "/tmp/kindling-dockerd.log"

// startCommand launches dockerd detached from the provisioning
// process. Development containers have no systemd.
const startCommand = "nohup dockerd > " + daemonLogPath + " 2>&1 &"

// Pinger probes Docker daemon liveness. A (false, nil) return means
// the daemon is not answering yet.
type Pinger interface {
	Ping(ctx context.Context) (bool, error)
}

// DaemonStep starts dockerd and waits for it to answer on its socket.
type DaemonStep struct {
	id     step.ID
	pinger Pinger
	runner ports.CommandRunner
	waiter wait.Waiter
}

// NewDaemonStep creates a DaemonStep that waits up to timeout for the
// daemon to come up.
func NewDaemonStep(pinger Pinger, runner ports.CommandRunner, timeout time.Duration) *DaemonStep {
	return &DaemonStep{
		id:     step.MustNewID("docker:daemon"),
		pinger: pinger,
		runner: runner,
		waiter: wait.Waiter{Interval: time.Second, Timeout: timeout},
	}
}

// ID returns the step identifier.
func (s *DaemonStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *DaemonStep) DependsOn() []step.ID {
	return []step.ID{step.MustNewID("docker:engine")}
}

// Check determines if the daemon is already answering.
func (s *DaemonStep) Check(ctx step.RunContext) (bool, error) {
	return s.pinger.Ping(ctx.Context())
}

// Apply starts dockerd in the background and waits for its socket to
// answer. Hitting the timeout is a readiness failure with the log
// path in the suggestion.
func (s *DaemonStep) Apply(ctx step.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "sudo", "sh", "-c", startCommand)
	if err != nil {
		return err
	}
	if !result.Success() {
		return step.NewInstallFailedError(s.id.String(),
			fmt.Errorf("starting dockerd failed: %s", strings.TrimSpace(result.Stderr)))
	}

	err = s.waiter.WaitFor(ctx.Context(), func(ctx context.Context) (bool, error) {
		return s.pinger.Ping(ctx)
	})
	if err != nil {
		if errors.Is(err, wait.ErrTimedOut) {
			stepErr := step.NewReadinessTimeoutError(s.id.String(), s.waiter.Timeout, err)
			stepErr.Suggestion = "Check " + daemonLogPath + " for dockerd startup errors, then re-run 'kindling up'."
			return stepErr
		}
		return err
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *DaemonStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Start Docker daemon",
		fmt.Sprintf("Starts dockerd in the background and waits up to %s for it to answer. Output goes to %s.",
			s.waiter.Timeout, daemonLogPath),
		nil,
	)
}

var _ step.Step = (*DaemonStep)(nil)
