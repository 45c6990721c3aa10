// Package kubectl installs the Kubernetes CLI.
package kubectl

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/ports"
)

// downloadPath is where the binary lands before install moves it into
// place.
const downloadPath = "/tmp/kindling-kubectl"

// InstallStep downloads the latest stable kubectl and installs it to
// /usr/local/bin.
type InstallStep struct {
	id       step.ID
	arch     string
	runner   ports.CommandRunner
	resolver ports.ReleaseResolver
}

// NewInstallStep creates an InstallStep for the given architecture
// (amd64, arm64).
func NewInstallStep(arch string, runner ports.CommandRunner, resolver ports.ReleaseResolver) *InstallStep {
	return &InstallStep{
		id:       step.MustNewID("kubectl:install"),
		arch:     arch,
		runner:   runner,
		resolver: resolver,
	}
}

// ID returns the step identifier.
func (s *InstallStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies. Installing tools after the
// daemon is up keeps the whole chain fail-fast: a dead daemon aborts
// everything downstream of it.
func (s *InstallStep) DependsOn() []step.ID {
	return []step.ID{
		step.MustNewID("apt:package:curl"),
		step.MustNewID("docker:daemon"),
	}
}

// Check determines if kubectl is already installed.
func (s *InstallStep) Check(ctx step.RunContext) (bool, error) {
	result, err := s.runner.Run(ctx.Context(), "kubectl", "version", "--client")
	if err != nil {
		return false, nil
	}
	return result.Success(), nil
}

// Apply downloads the latest stable release and installs it.
func (s *InstallStep) Apply(ctx step.RunContext) error {
	version, err := s.resolver.LatestKubectl(ctx.Context())
	if err != nil {
		return err
	}

	url := fmt.Sprintf("https://dl.k8s.io/release/%s/bin/linux/%s/kubectl", version, s.arch)

	result, err := s.runner.Run(ctx.Context(), "curl", "-fsSL", "-o", downloadPath, url)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return step.NewMissingDependencyError(s.id.String(), "curl")
		}
		return err
	}
	if !result.Success() {
		return step.NewInstallFailedError(s.id.String(),
			fmt.Errorf("downloading kubectl %s failed: %s", version, strings.TrimSpace(result.Stderr)))
	}

	result, err = s.runner.Run(ctx.Context(), "sudo", "install", "-m", "0755", downloadPath, "/usr/local/bin/kubectl")
	if err != nil {
		return err
	}
	if !result.Success() {
		return step.NewInstallFailedError(s.id.String(),
			fmt.Errorf("installing kubectl failed: %s", strings.TrimSpace(result.Stderr)))
	}
	return nil
}

// Verify confirms the installed binary answers.
func (s *InstallStep) Verify(ctx step.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "kubectl", "version", "--client")
	if err != nil {
		return fmt.Errorf("kubectl not runnable after install: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("kubectl version --client exited %d after install", result.ExitCode)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *InstallStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Install kubectl",
		"Downloads the latest stable kubectl release from dl.k8s.io and installs it to /usr/local/bin.",
		[]string{"https://kubernetes.io/docs/tasks/tools/install-kubectl-linux/"},
	)
}

// Provider contributes the kubectl install step.
type Provider struct {
	arch     string
	runner   ports.CommandRunner
	resolver ports.ReleaseResolver
}

// NewProvider creates a kubectl Provider.
func NewProvider(arch string, runner ports.CommandRunner, resolver ports.ReleaseResolver) *Provider {
	return &Provider{arch: arch, runner: runner, resolver: resolver}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "kubectl"
}

// Compile returns the install step.
func (p *Provider) Compile() ([]step.Step, error) {
	return []step.Step{NewInstallStep(p.arch, p.runner, p.resolver)}, nil
}

var (
	_ step.Step           = (*InstallStep)(nil)
	_ step.VerifiableStep = (*InstallStep)(nil)
	_ step.Provider       = (*Provider)(nil)
)
