// Package kind installs the kind CLI and provisions the local
// cluster.
package kind

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/ports"
)

const downloadPath = "/tmp/kindling-kind"

// InstallStep downloads the latest kind release binary and installs
// it to /usr/local/bin.
type InstallStep struct {
	id       step.ID
	arch     string
	runner   ports.CommandRunner
	resolver ports.ReleaseResolver
}

// NewInstallStep creates an InstallStep for the given architecture.
func NewInstallStep(arch string, runner ports.CommandRunner, resolver ports.ReleaseResolver) *InstallStep {
	return &InstallStep{
		id:       step.MustNewID("kind:install"),
		arch:     arch,
		runner:   runner,
		resolver: resolver,
	}
}

// ID returns the step identifier.
func (s *InstallStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies. The binary is useless
// without a running daemon, so it installs after daemon readiness and
// aborts with it.
func (s *InstallStep) DependsOn() []step.ID {
	return []step.ID{
		step.MustNewID("apt:package:curl"),
		step.MustNewID("docker:daemon"),
	}
}

// Check determines if kind is already installed.
func (s *InstallStep) Check(ctx step.RunContext) (bool, error) {
	result, err := s.runner.Run(ctx.Context(), "kind", "version")
	if err != nil {
		return false, nil
	}
	return result.Success(), nil
}

// Apply downloads the latest release binary and installs it.
func (s *InstallStep) Apply(ctx step.RunContext) error {
	version, err := s.resolver.LatestKind(ctx.Context())
	if err != nil {
		return err
	}

	url := fmt.Sprintf("https://github.com/kubernetes-sigs/kind/releases/download/%s/kind-linux-%s",
		version, s.arch)

	result, err := s.runner.Run(ctx.Context(), "curl", "-fsSL", "-o", downloadPath, url)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return step.NewMissingDependencyError(s.id.String(), "curl")
		}
		return err
	}
	if !result.Success() {
		return step.NewInstallFailedError(s.id.String(),
			fmt.Errorf("downloading kind %s failed: %s", version, strings.TrimSpace(result.Stderr)))
	}

	result, err = s.runner.Run(ctx.Context(), "sudo", "install", "-m", "0755", downloadPath, "/usr/local/bin/kind")
	if err != nil {
		return err
	}
	if !result.Success() {
		return step.NewInstallFailedError(s.id.String(),
			fmt.Errorf("installing kind failed: %s", strings.TrimSpace(result.Stderr)))
	}
	return nil
}

// Verify confirms the installed binary answers.
func (s *InstallStep) Verify(ctx step.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "kind", "version")
	if err != nil {
		return fmt.Errorf("kind not runnable after install: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("kind version exited %d after install", result.ExitCode)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *InstallStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Install kind",
		"Downloads the latest kind release from GitHub and installs it to /usr/local/bin.",
		[]string{"https://kind.sigs.k8s.io/docs/user/quick-start/"},
	)
}

var (
	_ step.Step           = (*InstallStep)(nil)
	_ step.VerifiableStep = (*InstallStep)(nil)
)
