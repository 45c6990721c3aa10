package addons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/ports"
	"github.com/kindling-sh/kindling/internal/wait"
)

// metricsManifestURL is the upstream metrics-server release manifest.
const metricsManifestURL = "https://github.com/kubernetes-sigs/metrics-server/releases/latest/download/components.yaml"

// kubeletInsecureTLS is required on kind: kubelets serve self-signed
// certificates the metrics-server would otherwise reject.
const kubeletInsecureTLS = "--kubelet-insecure-tls"

const (
	metricsNamespace  = "kube-system"
	metricsDeployment = "metrics-server"
	metricsTimeout    = 3 * time.Minute
	metricsAPITimeout = 2 * time.Minute
)

// MetricsServerStep installs the metrics-server add-on and waits for
// its deployment to become Available.
type MetricsServerStep struct {
	id      step.ID
	fetcher ports.ManifestFetcher
	factory ClientFactory
	timeout time.Duration
}

// NewMetricsServerStep creates a MetricsServerStep.
func NewMetricsServerStep(fetcher ports.ManifestFetcher, factory ClientFactory) *MetricsServerStep {
	return &MetricsServerStep{
		id:      step.MustNewID("addons:metrics-server"),
		fetcher: fetcher,
		factory: factory,
		timeout: metricsTimeout,
	}
}

// ID returns the step identifier.
func (s *MetricsServerStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *MetricsServerStep) DependsOn() []step.ID {
	return []step.ID{step.MustNewID("kind:nodes-ready")}
}

// Check determines if the metrics-server deployment is already
// Available.
func (s *MetricsServerStep) Check(ctx step.RunContext) (bool, error) {
	client, err := s.factory()
	if err != nil {
		return false, nil
	}
	return client.DeploymentAvailable(ctx.Context(), metricsNamespace, metricsDeployment)
}

// Apply installs the manifest, patches the kubelet TLS flag for kind,
// and waits for the deployment.
func (s *MetricsServerStep) Apply(ctx step.RunContext) error {
	client, err := s.factory()
	if err != nil {
		return fmt.Errorf("connecting to cluster: %w", err)
	}

	manifest, err := s.fetcher.Fetch(ctx.Context(), metricsManifestURL)
	if err != nil {
		return err
	}

	if err := client.Apply(ctx.Context(), manifest); err != nil {
		return err
	}

	if err := client.PatchDeploymentArgs(ctx.Context(), metricsNamespace, metricsDeployment,
		metricsDeployment, kubeletInsecureTLS); err != nil {
		return err
	}

	if err := client.WaitForDeployment(ctx.Context(), metricsNamespace, metricsDeployment, s.timeout); err != nil {
		if errors.Is(err, wait.ErrTimedOut) {
			return step.NewReadinessTimeoutError(s.id.String(), s.timeout, err)
		}
		return err
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *MetricsServerStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Install metrics-server",
		"Applies the metrics-server manifest with --kubelet-insecure-tls for kind's self-signed kubelets, then waits for the deployment.",
		[]string{"https://github.com/kubernetes-sigs/metrics-server"},
	)
}

// MetricsAPIStep waits for the metrics.k8s.io API to start answering.
// The aggregated API can lag behind the Available deployment, and
// nothing downstream depends on it, so failure is advisory.
type MetricsAPIStep struct {
	id      step.ID
	factory ClientFactory
	waiter  wait.Waiter
}

// NewMetricsAPIStep creates a MetricsAPIStep.
func NewMetricsAPIStep(factory ClientFactory) *MetricsAPIStep {
	return &MetricsAPIStep{
		id:      step.MustNewID("addons:metrics-api"),
		factory: factory,
		waiter:  wait.Waiter{Interval: 5 * time.Second, Timeout: metricsAPITimeout},
	}
}

// ID returns the step identifier.
func (s *MetricsAPIStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *MetricsAPIStep) DependsOn() []step.ID {
	return []step.ID{step.MustNewID("addons:metrics-server")}
}

// Check determines if the metrics API already answers.
func (s *MetricsAPIStep) Check(ctx step.RunContext) (bool, error) {
	client, err := s.factory()
	if err != nil {
		return false, nil
	}
	return client.MetricsAvailable(ctx.Context())
}

// Apply waits for the aggregated API to come up.
func (s *MetricsAPIStep) Apply(ctx step.RunContext) error {
	client, err := s.factory()
	if err != nil {
		return fmt.Errorf("connecting to cluster: %w", err)
	}

	err = s.waiter.WaitFor(ctx.Context(), func(ctx context.Context) (bool, error) {
		return client.MetricsAvailable(ctx)
	})
	if err != nil {
		if errors.Is(err, wait.ErrTimedOut) {
			return step.NewReadinessTimeoutError(s.id.String(), s.waiter.Timeout, err)
		}
		return err
	}
	return nil
}

// Advisory marks this step's failure as non-fatal.
func (s *MetricsAPIStep) Advisory() bool {
	return true
}

// Explain provides a human-readable explanation.
func (s *MetricsAPIStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Wait for metrics API",
		"Waits for the metrics.k8s.io aggregated API so 'kubectl top' works right away. Non-fatal if it is still warming up.",
		nil,
	)
}

var (
	_ step.Step         = (*MetricsServerStep)(nil)
	_ step.Step         = (*MetricsAPIStep)(nil)
	_ step.AdvisoryStep = (*MetricsAPIStep)(nil)
)
