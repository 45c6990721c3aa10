package docker

import (
	"fmt"
	"strings"

	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/ports"
)

// GroupStep adds the current user to the docker group so future
// shells can talk to the daemon without sudo. Group changes only take
// effect in new sessions, and the provisioning itself runs through
// sudo anyway, so failure here is advisory.
type GroupStep struct {
	id       step.ID
	username string
	runner   ports.CommandRunner
}

// NewGroupStep creates a GroupStep for the given user.
func NewGroupStep(username string, runner ports.CommandRunner) *GroupStep {
	return &GroupStep{
		id:       step.MustNewID("docker:group"),
		username: username,
		runner:   runner,
	}
}

// ID returns the step identifier.
func (s *GroupStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *GroupStep) DependsOn() []step.ID {
	return []step.ID{step.MustNewID("docker:engine")}
}

// Check determines if the user is already in the docker group.
func (s *GroupStep) Check(ctx step.RunContext) (bool, error) {
	if s.username == "" {
		// Nothing to add; running as root or user unknown.
		return true, nil
	}

	result, err := s.runner.Run(ctx.Context(), "id", "-nG", s.username)
	if err != nil {
		return false, err
	}
	if !result.Success() {
		return false, nil
	}

	for _, group := range strings.Fields(result.Stdout) {
		if group == "docker" {
			return true, nil
		}
	}
	return false, nil
}

// Apply adds the user to the docker group.
func (s *GroupStep) Apply(ctx step.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "sudo", "usermod", "-aG", "docker", s.username)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("usermod -aG docker %s failed: %s", s.username, strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Advisory marks this step's failure as non-fatal.
func (s *GroupStep) Advisory() bool {
	return true
}

// Explain provides a human-readable explanation.
func (s *GroupStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Add user to docker group",
		fmt.Sprintf("Adds %s to the docker group so new shells can use docker without sudo.", s.username),
		nil,
	)
}

var (
	_ step.Step         = (*GroupStep)(nil)
	_ step.AdvisoryStep = (*GroupStep)(nil)
)
