package kind

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/testutil/mocks"
	"github.com/kindling-sh/kindling/internal/wait"
)

func runCtx() step.RunContext {
	return step.NewRunContext(context.Background())
}

// fakeProvisioner tracks created clusters in memory.
type fakeProvisioner struct {
	clusters  map[string]bool
	listErr   error
	createErr error
	creates   int
}

func newFakeProvisioner(existing ...string) *fakeProvisioner {
	clusters := make(map[string]bool)
	for _, name := range existing {
		clusters[name] = true
	}
	return &fakeProvisioner{clusters: clusters}
}

func (p *fakeProvisioner) Exists(name string) (bool, error) {
	if p.listErr != nil {
		return false, p.listErr
	}
	return p.clusters[name], nil
}

func (p *fakeProvisioner) Create(name string) error {
	p.creates++
	if p.createErr != nil {
		return p.createErr
	}
	p.clusters[name] = true
	return nil
}

// fakeNodes reports a fixed readiness progression.
type fakeNodes struct {
	ready int
	total int
	err   error
	calls int
}

func (n *fakeNodes) NodesReady(_ context.Context) (int, int, error) {
	n.calls++
	if n.err != nil {
		return 0, 0, n.err
	}
	// One more node turns Ready on every poll.
	if n.ready < n.total {
		n.ready++
	}
	return n.ready, n.total, nil
}

func TestInstallStep_Apply(t *testing.T) {
	t.Parallel()

	url := "https://github.com/kubernetes-sigs/kind/releases/download/v0.31.0/kind-linux-amd64"

	runner := mocks.NewCommandRunner()
	runner.AddSuccess("curl", []string{"-fsSL", "-o", downloadPath, url}, "")
	runner.AddSuccess("sudo", []string{"install", "-m", "0755", downloadPath, "/usr/local/bin/kind"}, "")

	s := NewInstallStep("amd64", runner, mocks.NewReleaseResolver("v1.31.2", "v0.31.0"))
	require.NoError(t, s.Apply(runCtx()))

	assert.True(t, runner.CalledWith("curl", "-fsSL", "-o", downloadPath, url))
}

func TestInstallStep_Check(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddError("kind", []string{"version"}, errors.New("exec: kind: not found"))

	s := NewInstallStep("amd64", runner, mocks.NewReleaseResolver("v1.31.2", "v0.31.0"))
	satisfied, err := s.Check(runCtx())
	require.NoError(t, err)
	assert.False(t, satisfied)
}

func TestClusterStep_Check(t *testing.T) {
	t.Parallel()

	t.Run("existing cluster is satisfied", func(t *testing.T) {
		t.Parallel()

		s := NewClusterStep("codespace-kind", newFakeProvisioner("codespace-kind"))
		satisfied, err := s.Check(runCtx())
		require.NoError(t, err)
		assert.True(t, satisfied)
	})

	t.Run("list failure means not provisioned", func(t *testing.T) {
		t.Parallel()

		p := newFakeProvisioner()
		p.listErr = errors.New("Cannot connect to the Docker daemon")

		s := NewClusterStep("codespace-kind", p)
		satisfied, err := s.Check(runCtx())
		require.NoError(t, err)
		assert.False(t, satisfied)
	})
}

func TestClusterStep_ApplyAndVerify(t *testing.T) {
	t.Parallel()

	p := newFakeProvisioner()
	s := NewClusterStep("codespace-kind", p)

	require.NoError(t, s.Apply(runCtx()))
	assert.Equal(t, 1, p.creates)
	require.NoError(t, s.Verify(runCtx()))
}

func TestClusterStep_VerifyFailsWhenClusterMissing(t *testing.T) {
	t.Parallel()

	p := newFakeProvisioner()
	s := NewClusterStep("codespace-kind", p)

	// Create reports success but the cluster never shows up.
	require.NoError(t, s.Apply(runCtx()))
	delete(p.clusters, "codespace-kind")

	assert.ErrorContains(t, s.Verify(runCtx()), "missing after create")
}

func TestNodesReadyStep_Check(t *testing.T) {
	t.Parallel()

	t.Run("no cluster yet", func(t *testing.T) {
		t.Parallel()

		s := NewNodesReadyStep(func() (NodesClient, error) {
			return nil, errors.New("kubeconfig not found")
		})

		satisfied, err := s.Check(runCtx())
		require.NoError(t, err)
		assert.False(t, satisfied)
	})

	t.Run("all nodes ready", func(t *testing.T) {
		t.Parallel()

		nodes := &fakeNodes{ready: 2, total: 2}
		s := NewNodesReadyStep(func() (NodesClient, error) { return nodes, nil })

		satisfied, err := s.Check(runCtx())
		require.NoError(t, err)
		assert.True(t, satisfied)
	})
}

func TestNodesReadyStep_ApplyWaits(t *testing.T) {
	t.Parallel()

	nodes := &fakeNodes{ready: 0, total: 2}
	s := NewNodesReadyStep(func() (NodesClient, error) { return nodes, nil })
	s.waiter = wait.Waiter{Interval: 5 * time.Millisecond, Timeout: time.Second}

	require.NoError(t, s.Apply(runCtx()))
	assert.GreaterOrEqual(t, nodes.calls, 2)
}

func TestNodesReadyStep_ApplyTimesOut(t *testing.T) {
	t.Parallel()

	nodes := &fakeNodes{ready: 0, total: 0}
	s := NewNodesReadyStep(func() (NodesClient, error) { return nodes, nil })
	s.waiter = wait.Waiter{Interval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond}

	err := s.Apply(runCtx())
	require.Error(t, err)

	var stepErr *step.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, step.CodeReadinessTimeout, stepErr.Code)
}

func TestProvider_Compile(t *testing.T) {
	t.Parallel()

	provider := NewProvider("amd64", "codespace-kind",
		mocks.NewCommandRunner(),
		mocks.NewReleaseResolver("v1.31.2", "v0.31.0"),
		newFakeProvisioner(),
		func() (NodesClient, error) { return &fakeNodes{}, nil },
	)
	assert.Equal(t, "kind", provider.Name())

	steps, err := provider.Compile()
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, "kind:install", steps[0].ID().String())
	assert.Equal(t, "kind:cluster", steps[1].ID().String())
	assert.Equal(t, "kind:nodes-ready", steps[2].ID().String())
}
