package dag

import (
	"fmt"
)

// New creates a graph with n nodes and no edges.
func New(n int) *Graph {
	return &Graph{succ: make([][]int, n)}
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.succ) }

// AddEdge creates a directed edge from -> to. Self-edges are allowed.
// Adding an existing edge again is a no-op.
func (g *Graph) AddEdge(from, to int) error {
	if from < 0 || from >= len(g.succ) {
		return fmt.Errorf("edge source %d out of range [0, %d)", from, len(g.succ))
	}
	if to < 0 || to >= len(g.succ) {
		return fmt.Errorf("edge target %d out of range [0, %d)", to, len(g.succ))
	}
	for _, s := range g.succ[from] {
		if s == to {
			return nil
		}
	}
	g.succ[from] = append(g.succ[from], to)
	return nil
}

// Successors returns the successors of n. The slice must not be modified.
func (g *Graph) Successors(n int) []int {
	if n < 0 || n >= len(g.succ) {
		return nil
	}
	return g.succ[n]
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected involving node %d", e.Node)
}
