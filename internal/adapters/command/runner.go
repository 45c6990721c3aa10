// Package command executes external commands for provisioning steps.
package command

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/kindling-sh/kindling/internal/ports"
)

// ExecRunner runs commands through os/exec with captured output.
type ExecRunner struct{}

// NewExecRunner creates an ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes a command and captures its output. A non-zero exit is
// reported through CommandResult.ExitCode, not as an error; errors
// mean the command could not be started or was killed.
func (r *ExecRunner) Run(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := ports.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}

	return result, nil
}

var _ ports.CommandRunner = (*ExecRunner)(nil)
