// Package mocks provides test doubles shared across packages.
package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kindling-sh/kindling/internal/ports"
)

// CommandRunner is a thread-safe test double for ports.CommandRunner.
type CommandRunner struct {
	mu      sync.RWMutex
	results map[string]ports.CommandResult
	errors  map[string]error
	calls   []ports.CommandCall
}

// NewCommandRunner creates a CommandRunner mock.
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{
		results: make(map[string]ports.CommandResult),
		errors:  make(map[string]error),
	}
}

// AddResult registers an expected command and its result.
func (m *CommandRunner) AddResult(command string, args []string, result ports.CommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[buildKey(command, args)] = result
}

// AddSuccess registers a command that exits 0 with the given stdout.
func (m *CommandRunner) AddSuccess(command string, args []string, stdout string) {
	m.AddResult(command, args, ports.CommandResult{Stdout: stdout})
}

// AddFailure registers a command that exits non-zero with the given
// stderr.
func (m *CommandRunner) AddFailure(command string, args []string, exitCode int, stderr string) {
	m.AddResult(command, args, ports.CommandResult{ExitCode: exitCode, Stderr: stderr})
}

// AddError registers a command invocation that returns an error.
func (m *CommandRunner) AddError(command string, args []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[buildKey(command, args)] = err
}

// Run executes a mock command.
func (m *CommandRunner) Run(_ context.Context, command string, args ...string) (ports.CommandResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ports.CommandCall{Command: command, Args: args})
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	key := buildKey(command, args)

	if err, ok := m.errors[key]; ok {
		return ports.CommandResult{}, err
	}
	if result, ok := m.results[key]; ok {
		return result, nil
	}

	return ports.CommandResult{}, fmt.Errorf("no mock result for command: %s %v", command, args)
}

// Calls returns all recorded command invocations.
func (m *CommandRunner) Calls() []ports.CommandCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]ports.CommandCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CalledWith reports whether the given command was invoked.
func (m *CommandRunner) CalledWith(command string, args ...string) bool {
	key := buildKey(command, args)

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, call := range m.calls {
		if buildKey(call.Command, call.Args) == key {
			return true
		}
	}
	return false
}

// Reset clears all registered results, errors, and recorded calls.
func (m *CommandRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = make(map[string]ports.CommandResult)
	m.errors = make(map[string]error)
	m.calls = nil
}

func buildKey(command string, args []string) string {
	return command + ":" + strings.Join(args, ":")
}

var _ ports.CommandRunner = (*CommandRunner)(nil)
