package kind

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/wait"
)

// nodesReadyTimeout bounds how long we wait for both nodes after
// cluster creation. Image pulls on a cold container can be slow.
const nodesReadyTimeout = 5 * time.Minute

// expectedNodes is the cluster topology size: control-plane + worker.
const expectedNodes = 2

// NodesClient reports node readiness.
type NodesClient interface {
	NodesReady(ctx context.Context) (ready, total int, err error)
}

// NodesClientFactory builds a NodesClient once the cluster's
// kubeconfig exists. It fails while the cluster is absent.
type NodesClientFactory func() (NodesClient, error)

// NodesReadyStep waits until every node in the cluster reports Ready.
type NodesReadyStep struct {
	id      step.ID
	factory NodesClientFactory
	waiter  wait.Waiter
}

// NewNodesReadyStep creates a NodesReadyStep.
func NewNodesReadyStep(factory NodesClientFactory) *NodesReadyStep {
	return &NodesReadyStep{
		id:      step.MustNewID("kind:nodes-ready"),
		factory: factory,
		waiter:  wait.New(nodesReadyTimeout),
	}
}

// ID returns the step identifier.
func (s *NodesReadyStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *NodesReadyStep) DependsOn() []step.ID {
	return []step.ID{step.MustNewID("kind:cluster")}
}

// Check determines if all nodes already report Ready. Before the
// cluster exists the client cannot be built, which means not yet.
func (s *NodesReadyStep) Check(ctx step.RunContext) (bool, error) {
	client, err := s.factory()
	if err != nil {
		return false, nil
	}

	ready, total, err := client.NodesReady(ctx.Context())
	if err != nil {
		return false, nil
	}
	return total >= expectedNodes && ready == total, nil
}

// Apply polls until both nodes are Ready.
func (s *NodesReadyStep) Apply(ctx step.RunContext) error {
	client, err := s.factory()
	if err != nil {
		return fmt.Errorf("connecting to cluster: %w", err)
	}

	err = s.waiter.WaitFor(ctx.Context(), func(ctx context.Context) (bool, error) {
		ready, total, err := client.NodesReady(ctx)
		if err != nil {
			// The API server can drop connections while it starts up.
			return false, nil
		}
		return total >= expectedNodes && ready == total, nil
	})
	if err != nil {
		if errors.Is(err, wait.ErrTimedOut) {
			return step.NewReadinessTimeoutError(s.id.String(), s.waiter.Timeout, err)
		}
		return err
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *NodesReadyStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Wait for cluster nodes",
		fmt.Sprintf("Waits up to %s for both cluster nodes to report Ready.", nodesReadyTimeout),
		nil,
	)
}

var _ step.Step = (*NodesReadyStep)(nil)
