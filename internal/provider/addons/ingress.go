package addons

import (
	"errors"
	"fmt"
	"time"

	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/ports"
	"github.com/kindling-sh/kindling/internal/wait"
)

// ingressManifestURL is the ingress-nginx deploy manifest tuned for
// kind clusters.
const ingressManifestURL = "https://raw.githubusercontent.com/kubernetes/ingress-nginx/main/deploy/static/provider/kind/deploy.yaml"

const (
	ingressNamespace  = "ingress-nginx"
	ingressDeployment = "ingress-nginx-controller"
	ingressTimeout    = 3 * time.Minute
)

// IngressStep installs the ingress-nginx controller and waits for it.
type IngressStep struct {
	id      step.ID
	fetcher ports.ManifestFetcher
	factory ClientFactory
	timeout time.Duration
}

// NewIngressStep creates an IngressStep.
func NewIngressStep(fetcher ports.ManifestFetcher, factory ClientFactory) *IngressStep {
	return &IngressStep{
		id:      step.MustNewID("addons:ingress-nginx"),
		fetcher: fetcher,
		factory: factory,
		timeout: ingressTimeout,
	}
}

// ID returns the step identifier.
func (s *IngressStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *IngressStep) DependsOn() []step.ID {
	return []step.ID{step.MustNewID("kind:nodes-ready")}
}

// Check determines if the controller deployment is already Available.
func (s *IngressStep) Check(ctx step.RunContext) (bool, error) {
	client, err := s.factory()
	if err != nil {
		return false, nil
	}
	return client.DeploymentAvailable(ctx.Context(), ingressNamespace, ingressDeployment)
}

// Apply installs the manifest and waits for the controller.
func (s *IngressStep) Apply(ctx step.RunContext) error {
	client, err := s.factory()
	if err != nil {
		return fmt.Errorf("connecting to cluster: %w", err)
	}

	manifest, err := s.fetcher.Fetch(ctx.Context(), ingressManifestURL)
	if err != nil {
		return err
	}

	if err := client.Apply(ctx.Context(), manifest); err != nil {
		return err
	}

	if err := client.WaitForDeployment(ctx.Context(), ingressNamespace, ingressDeployment, s.timeout); err != nil {
		if errors.Is(err, wait.ErrTimedOut) {
			return step.NewReadinessTimeoutError(s.id.String(), s.timeout, err)
		}
		return err
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *IngressStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Install ingress-nginx",
		"Applies the kind-specific ingress-nginx manifest and waits for the controller deployment.",
		[]string{"https://kind.sigs.k8s.io/docs/user/ingress/"},
	)
}

// Provider contributes the add-on steps.
type Provider struct {
	fetcher ports.ManifestFetcher
	factory ClientFactory
}

// NewProvider creates an addons Provider.
func NewProvider(fetcher ports.ManifestFetcher, factory ClientFactory) *Provider {
	return &Provider{fetcher: fetcher, factory: factory}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "addons"
}

// Compile returns the metrics-server, metrics API, and ingress steps.
func (p *Provider) Compile() ([]step.Step, error) {
	return []step.Step{
		NewMetricsServerStep(p.fetcher, p.factory),
		NewMetricsAPIStep(p.factory),
		NewIngressStep(p.fetcher, p.factory),
	}, nil
}

var (
	_ step.Step     = (*IngressStep)(nil)
	_ step.Provider = (*Provider)(nil)
)
