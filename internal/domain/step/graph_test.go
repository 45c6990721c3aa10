package step_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindling-sh/kindling/internal/domain/step"
)

type fakeStep struct {
	id   step.ID
	deps []step.ID
}

func (s *fakeStep) ID() step.ID                              { return s.id }
func (s *fakeStep) DependsOn() []step.ID                     { return s.deps }
func (s *fakeStep) Check(_ step.RunContext) (bool, error)    { return false, nil }
func (s *fakeStep) Apply(_ step.RunContext) error            { return nil }
func (s *fakeStep) Explain() step.Explanation                { return step.Explanation{} }

func newFakeStep(t *testing.T, id string, deps ...string) *fakeStep {
	t.Helper()

	depIDs := make([]step.ID, len(deps))
	for i, d := range deps {
		depIDs[i] = step.MustNewID(d)
	}
	return &fakeStep{id: step.MustNewID(id), deps: depIDs}
}

func TestGraph_Add(t *testing.T) {
	t.Parallel()

	t.Run("adds steps", func(t *testing.T) {
		t.Parallel()

		g := step.NewGraph()
		require.NoError(t, g.Add(newFakeStep(t, "docker:engine")))
		require.NoError(t, g.Add(newFakeStep(t, "docker:daemon", "docker:engine")))

		assert.Equal(t, 2, g.Len())
	})

	t.Run("rejects duplicate IDs", func(t *testing.T) {
		t.Parallel()

		g := step.NewGraph()
		require.NoError(t, g.Add(newFakeStep(t, "docker:engine")))

		err := g.Add(newFakeStep(t, "docker:engine"))
		assert.ErrorIs(t, err, step.ErrDuplicateStep)
	})
}

func TestGraph_Get(t *testing.T) {
	t.Parallel()

	g := step.NewGraph()
	s := newFakeStep(t, "kind:cluster")
	require.NoError(t, g.Add(s))

	got, ok := g.Get(step.MustNewID("kind:cluster"))
	require.True(t, ok)
	assert.Equal(t, s, got)

	_, ok = g.Get(step.MustNewID("kind:install"))
	assert.False(t, ok)
}

func TestGraph_Validate(t *testing.T) {
	t.Parallel()

	t.Run("passes when all dependencies exist", func(t *testing.T) {
		t.Parallel()

		g := step.NewGraph()
		require.NoError(t, g.Add(newFakeStep(t, "docker:engine")))
		require.NoError(t, g.Add(newFakeStep(t, "docker:daemon", "docker:engine")))

		assert.NoError(t, g.Validate())
	})

	t.Run("fails on missing dependency", func(t *testing.T) {
		t.Parallel()

		g := step.NewGraph()
		require.NoError(t, g.Add(newFakeStep(t, "kind:cluster", "docker:daemon")))

		assert.ErrorIs(t, g.Validate(), step.ErrMissingDep)
	})
}

func TestGraph_TopologicalSort(t *testing.T) {
	t.Parallel()

	t.Run("orders dependencies before dependents", func(t *testing.T) {
		t.Parallel()

		g := step.NewGraph()
		require.NoError(t, g.Add(newFakeStep(t, "kind:cluster", "kind:install", "docker:daemon")))
		require.NoError(t, g.Add(newFakeStep(t, "docker:daemon", "docker:engine")))
		require.NoError(t, g.Add(newFakeStep(t, "kind:install")))
		require.NoError(t, g.Add(newFakeStep(t, "docker:engine")))

		sorted, err := g.TopologicalSort()
		require.NoError(t, err)
		require.Len(t, sorted, 4)

		pos := make(map[string]int, len(sorted))
		for i, s := range sorted {
			pos[s.ID().String()] = i
		}

		assert.Less(t, pos["docker:engine"], pos["docker:daemon"])
		assert.Less(t, pos["docker:daemon"], pos["kind:cluster"])
		assert.Less(t, pos["kind:install"], pos["kind:cluster"])
	})

	t.Run("detects cycles", func(t *testing.T) {
		t.Parallel()

		g := step.NewGraph()
		require.NoError(t, g.Add(newFakeStep(t, "a", "b")))
		require.NoError(t, g.Add(newFakeStep(t, "b", "a")))

		_, err := g.TopologicalSort()
		assert.ErrorIs(t, err, step.ErrCyclicDependency)
	})

	t.Run("empty graph sorts to empty slice", func(t *testing.T) {
		t.Parallel()

		g := step.NewGraph()
		sorted, err := g.TopologicalSort()
		require.NoError(t, err)
		assert.Empty(t, sorted)
	})
}
