package docker

import (
	"time"

	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/ports"
)

// Provider contributes the Docker engine, group, and daemon steps.
type Provider struct {
	runner   ports.CommandRunner
	pinger   Pinger
	username string
	timeout  time.Duration
}

// NewProvider creates a docker Provider. username may be empty when
// running as root.
func NewProvider(runner ports.CommandRunner, pinger Pinger, username string, timeout time.Duration) *Provider {
	return &Provider{
		runner:   runner,
		pinger:   pinger,
		username: username,
		timeout:  timeout,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "docker"
}

// Compile returns the engine install, group membership, and daemon
// startup steps.
func (p *Provider) Compile() ([]step.Step, error) {
	return []step.Step{
		NewEngineStep(p.runner),
		NewGroupStep(p.username, p.runner),
		NewDaemonStep(p.pinger, p.runner, p.timeout),
	}, nil
}

var _ step.Provider = (*Provider)(nil)
