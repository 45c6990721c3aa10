// Package apt provisions the base packages the rest of the toolchain
// needs.
package apt

import (
	"fmt"
	"strings"
	"sync"

	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/ports"
)

// updateOnce makes sure "apt-get update" runs at most once per
// process, and only when some package actually needs installing.
type updateOnce struct {
	once sync.Once
	err  error
}

func (u *updateOnce) run(ctx step.RunContext, runner ports.CommandRunner) error {
	u.once.Do(func() {
		result, err := runner.Run(ctx.Context(), "sudo", "apt-get", "update")
		if err != nil {
			u.err = err
			return
		}
		if !result.Success() {
			u.err = fmt.Errorf("apt-get update failed: %s", strings.TrimSpace(result.Stderr))
		}
	})
	return u.err
}

// PackageStep installs one apt package.
type PackageStep struct {
	name   string
	id     step.ID
	runner ports.CommandRunner
	update *updateOnce
}

// NewPackageStep creates a PackageStep for the named package.
func NewPackageStep(name string, runner ports.CommandRunner, update *updateOnce) *PackageStep {
	return &PackageStep{
		name:   name,
		id:     step.MustNewID("apt:package:" + name),
		runner: runner,
		update: update,
	}
}

// ID returns the step identifier.
func (s *PackageStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *PackageStep) DependsOn() []step.ID {
	return nil
}

// Check determines if the package is already installed.
func (s *PackageStep) Check(ctx step.RunContext) (bool, error) {
	result, err := s.runner.Run(ctx.Context(), "dpkg-query", "-W", "-f=${db:Status-Status}", s.name)
	if err != nil {
		return false, err
	}

	// dpkg-query exits 1 when the package is unknown.
	if !result.Success() {
		return false, nil
	}
	return strings.TrimSpace(result.Stdout) == "installed", nil
}

// Apply installs the package. The package index is refreshed once
// before the first install of the run.
func (s *PackageStep) Apply(ctx step.RunContext) error {
	if err := s.update.run(ctx, s.runner); err != nil {
		return err
	}

	result, err := s.runner.Run(ctx.Context(), "sudo", "apt-get", "install", "-y", s.name)
	if err != nil {
		return err
	}
	if !result.Success() {
		return step.NewInstallFailedError(s.id.String(),
			fmt.Errorf("apt-get install %s failed: %s", s.name, strings.TrimSpace(result.Stderr)))
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *PackageStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Install "+s.name,
		fmt.Sprintf("Installs the %s package via apt. The Docker and Kubernetes installers depend on it.", s.name),
		nil,
	)
}

var _ step.Step = (*PackageStep)(nil)
