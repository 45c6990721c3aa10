package kind

import (
	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/ports"
)

// Provider contributes the kind install, cluster creation, and node
// readiness steps.
type Provider struct {
	arch        string
	clusterName string
	runner      ports.CommandRunner
	resolver    ports.ReleaseResolver
	provisioner ClusterProvisioner
	factory     NodesClientFactory
}

// NewProvider creates a kind Provider.
func NewProvider(
	arch, clusterName string,
	runner ports.CommandRunner,
	resolver ports.ReleaseResolver,
	provisioner ClusterProvisioner,
	factory NodesClientFactory,
) *Provider {
	return &Provider{
		arch:        arch,
		clusterName: clusterName,
		runner:      runner,
		resolver:    resolver,
		provisioner: provisioner,
		factory:     factory,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "kind"
}

// Compile returns the install, cluster, and nodes-ready steps.
func (p *Provider) Compile() ([]step.Step, error) {
	return []step.Step{
		NewInstallStep(p.arch, p.runner, p.resolver),
		NewClusterStep(p.clusterName, p.provisioner),
		NewNodesReadyStep(p.factory),
	}, nil
}

var _ step.Provider = (*Provider)(nil)
