// Package docker provisions the Docker engine and brings its daemon
// up inside the development container.
package docker

import (
	"fmt"
	"strings"

	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/ports"
)

// installScript pipes Docker's convenience installer through sh, the
// supported install path for development containers.
const installScript = "curl -fsSL https://get.docker.com | sudo sh"

// EngineStep installs the Docker engine.
type EngineStep struct {
	id     step.ID
	runner ports.CommandRunner
}

// NewEngineStep creates an EngineStep.
func NewEngineStep(runner ports.CommandRunner) *EngineStep {
	return &EngineStep{
		id:     step.MustNewID("docker:engine"),
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *EngineStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *EngineStep) DependsOn() []step.ID {
	return []step.ID{
		step.MustNewID("apt:package:ca-certificates"),
		step.MustNewID("apt:package:curl"),
	}
}

// Check determines if the docker binary is already installed.
func (s *EngineStep) Check(ctx step.RunContext) (bool, error) {
	result, err := s.runner.Run(ctx.Context(), "docker", "--version")
	if err != nil {
		// The binary is missing, which is the state Apply fixes.
		return false, nil
	}
	return result.Success(), nil
}

// Apply runs the upstream install script.
func (s *EngineStep) Apply(ctx step.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "sh", "-c", installScript)
	if err != nil {
		return err
	}
	if !result.Success() {
		return step.NewInstallFailedError(s.id.String(),
			fmt.Errorf("docker install script failed: %s", strings.TrimSpace(result.Stderr)))
	}
	return nil
}

// Verify confirms the binary answers after installation.
func (s *EngineStep) Verify(ctx step.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "docker", "--version")
	if err != nil {
		return fmt.Errorf("docker not runnable after install: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("docker --version exited %d after install", result.ExitCode)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *EngineStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Install Docker engine",
		"Installs the Docker engine using the official get.docker.com script. kind runs its cluster nodes as Docker containers.",
		[]string{"https://docs.docker.com/engine/install/"},
	)
}

var (
	_ step.Step           = (*EngineStep)(nil)
	_ step.VerifiableStep = (*EngineStep)(nil)
)
