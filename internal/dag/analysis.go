package dag

import "slices"

// DetectCycles returns a *CycleError if the graph contains a cycle,
// including a self-edge.
func (g *Graph) DetectCycles() error {
	// permanent: fully visited and not on a cycle.
	// temporary: on the current recursion stack.
	permanent := make([]bool, len(g.succ))
	temporary := make([]bool, len(g.succ))

	var visit func(n int) error
	visit = func(n int) error {
		if permanent[n] {
			return nil
		}
		if temporary[n] {
			return &CycleError{Node: n}
		}
		temporary[n] = true
		for _, s := range g.succ[n] {
			if err := visit(s); err != nil {
				return err
			}
		}
		temporary[n] = false
		permanent[n] = true
		return nil
	}

	for n := range g.succ {
		if err := visit(n); err != nil {
			return err
		}
	}
	return nil
}

// PostOrder returns every node exactly once, each node after all of its
// successors that are not on a cycle through it. Roots are started in
// ascending id order.
func (g *Graph) PostOrder() []int {
	seen := make([]bool, len(g.succ))
	order := make([]int, 0, len(g.succ))

	var visit func(n int)
	visit = func(n int) {
		seen[n] = true
		for _, s := range g.succ[n] {
			if !seen[s] {
				visit(s)
			}
		}
		order = append(order, n)
	}
	for n := range g.succ {
		if !seen[n] {
			visit(n)
		}
	}
	return order
}

// Components returns the strongly connected components in reverse
// topological order: a component is listed after every component reachable
// from it. Nodes inside a component are in ascending order.
func (g *Graph) Components() [][]int {
	// Tarjan's algorithm.
	n := len(g.succ)
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var (
		stack []int
		comps [][]int
		next  int
	)

	var connect func(v int)
	connect = func(v int) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.succ[v] {
			switch {
			case index[w] == -1:
				connect(w)
				low[v] = min(low[v], low[w])
			case onStack[w]:
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] == index[v] {
			var comp []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			slices.Sort(comp)
			comps = append(comps, comp)
		}
	}

	for v := 0; v < n; v++ {
		if index[v] == -1 {
			connect(v)
		}
	}
	return comps
}

// Cyclic reports whether the component has an internal edge, that is more
// than one node or a self-edge.
func (g *Graph) Cyclic(comp []int) bool {
	if len(comp) > 1 {
		return true
	}
	if len(comp) == 0 {
		return false
	}
	for _, s := range g.succ[comp[0]] {
		if s == comp[0] {
			return true
		}
	}
	return false
}
