package apt

import (
	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/ports"
)

// prerequisites are the packages the Docker and kubectl installers
// need on a fresh development container.
var prerequisites = []string{
	"ca-certificates",
	"curl",
	"gnupg",
	"lsb-release",
}

// Provider contributes the base package steps.
type Provider struct {
	runner ports.CommandRunner
}

// NewProvider creates an apt Provider.
func NewProvider(runner ports.CommandRunner) *Provider {
	return &Provider{runner: runner}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "apt"
}

// Compile returns one install step per prerequisite package. All
// steps share a single index refresh.
func (p *Provider) Compile() ([]step.Step, error) {
	update := &updateOnce{}

	steps := make([]step.Step, 0, len(prerequisites))
	for _, name := range prerequisites {
		steps = append(steps, NewPackageStep(name, p.runner, update))
	}
	return steps, nil
}

var _ step.Provider = (*Provider)(nil)
