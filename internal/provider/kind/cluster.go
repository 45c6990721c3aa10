package kind

import (
	"fmt"

	"github.com/kindling-sh/kindling/internal/domain/step"
)

// ClusterProvisioner creates and inspects kind clusters.
type ClusterProvisioner interface {
	// Exists reports whether a cluster with the given name exists.
	Exists(name string) (bool, error)

	// Create provisions a cluster with the given name.
	Create(name string) error
}

// ClusterStep creates the kind cluster with one control-plane node
// and one worker.
type ClusterStep struct {
	id          step.ID
	clusterName string
	provisioner ClusterProvisioner
}

// NewClusterStep creates a ClusterStep.
func NewClusterStep(clusterName string, provisioner ClusterProvisioner) *ClusterStep {
	return &ClusterStep{
		id:          step.MustNewID("kind:cluster"),
		clusterName: clusterName,
		provisioner: provisioner,
	}
}

// ID returns the step identifier.
func (s *ClusterStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *ClusterStep) DependsOn() []step.ID {
	return []step.ID{
		step.MustNewID("kind:install"),
		step.MustNewID("docker:daemon"),
	}
}

// Check determines if the cluster already exists. Listing fails when
// the daemon is not up yet, which just means nothing is provisioned.
func (s *ClusterStep) Check(ctx step.RunContext) (bool, error) {
	_ = ctx

	exists, err := s.provisioner.Exists(s.clusterName)
	if err != nil {
		return false, nil
	}
	return exists, nil
}

// Apply creates the cluster.
func (s *ClusterStep) Apply(ctx step.RunContext) error {
	_ = ctx
	return s.provisioner.Create(s.clusterName)
}

// Verify confirms the cluster is listed after creation.
func (s *ClusterStep) Verify(ctx step.RunContext) error {
	_ = ctx

	exists, err := s.provisioner.Exists(s.clusterName)
	if err != nil {
		return fmt.Errorf("listing clusters after create: %w", err)
	}
	if !exists {
		return fmt.Errorf("cluster %q missing after create", s.clusterName)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ClusterStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Create kind cluster",
		fmt.Sprintf("Creates the %q kind cluster with one control-plane node and one worker node.", s.clusterName),
		nil,
	)
}

var (
	_ step.Step           = (*ClusterStep)(nil)
	_ step.VerifiableStep = (*ClusterStep)(nil)
)
