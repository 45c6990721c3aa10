package step

import (
	"errors"
	"fmt"
)

// Errors for Graph operations.
var (
	ErrDuplicateStep    = errors.New("step with this ID already exists")
	ErrCyclicDependency = errors.New("cyclic dependency detected")
	ErrMissingDep       = errors.New("step depends on nonexistent step")
)

// Graph is a directed acyclic graph of provisioning steps.
// It tracks dependencies and provides topological sorting so steps
// execute in a valid order.
type Graph struct {
	steps      map[string]Step
	dependsOn  map[string][]string // step ID -> dependency IDs
	dependedBy map[string][]string // step ID -> dependent IDs
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		steps:      make(map[string]Step),
		dependsOn:  make(map[string][]string),
		dependedBy: make(map[string][]string),
	}
}

// Len returns the number of steps in the graph.
func (g *Graph) Len() int {
	return len(g.steps)
}

// Add adds a step to the graph.
// Returns ErrDuplicateStep if a step with the same ID already exists.
func (g *Graph) Add(s Step) error {
	id := s.ID().String()

	if _, exists := g.steps[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateStep, id)
	}

	g.steps[id] = s

	deps := s.DependsOn()
	depIDs := make([]string, len(deps))
	for i, dep := range deps {
		depID := dep.String()
		depIDs[i] = depID
		g.dependedBy[depID] = append(g.dependedBy[depID], id)
	}
	g.dependsOn[id] = depIDs

	return nil
}

// Get retrieves a step by ID.
func (g *Graph) Get(id ID) (Step, bool) {
	s, ok := g.steps[id.String()]
	return s, ok
}

// Steps returns all steps in the graph (in no particular order).
func (g *Graph) Steps() []Step {
	steps := make([]Step, 0, len(g.steps))
	for _, s := range g.steps {
		steps = append(steps, s)
	}
	return steps
}

// Validate checks that all declared dependencies exist in the graph.
func (g *Graph) Validate() error {
	for id, deps := range g.dependsOn {
		for _, depID := range deps {
			if _, exists := g.steps[depID]; !exists {
				return fmt.Errorf("%w: step %q depends on %q", ErrMissingDep, id, depID)
			}
		}
	}
	return nil
}

// TopologicalSort returns steps in dependency order using Kahn's
// algorithm. Steps with no dependencies come first.
// Returns ErrCyclicDependency if the graph contains a cycle.
func (g *Graph) TopologicalSort() ([]Step, error) {
	inDegree := make(map[string]int)
	for id := range g.steps {
		inDegree[id] = 0
	}
	for id := range g.steps {
		for _, depID := range g.dependsOn[id] {
			if _, exists := g.steps[depID]; exists {
				inDegree[id]++
			}
		}
	}

	queue := make([]string, 0)
	for id, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]Step, 0, len(g.steps))

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		sorted = append(sorted, g.steps[id])

		for _, dependentID := range g.dependedBy[id] {
			if _, exists := g.steps[dependentID]; !exists {
				continue
			}
			inDegree[dependentID]--
			if inDegree[dependentID] == 0 {
				queue = append(queue, dependentID)
			}
		}
	}

	if len(sorted) != len(g.steps) {
		return nil, ErrCyclicDependency
	}

	return sorted, nil
}
