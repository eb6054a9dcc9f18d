package shape

import (
	"errors"
	"slices"

	"github.com/specialistvlad/pschema/internal/dag"
)

// analyze fills in strata, the local evaluation order, reference
// back-pointers and cardinality edge filters.
func analyze(s *Schema) error {
	n := len(s.nodes)
	all := dag.New(n)
	local := dag.New(n)
	for i := range s.nodes {
		node := &s.nodes[i]
		for _, child := range node.Children {
			if err := all.AddEdge(i, int(child)); err != nil {
				return err
			}
			if node.Kind == KindReference {
				continue
			}
			if err := local.AddEdge(i, int(child)); err != nil {
				return err
			}
		}
	}

	if err := local.DetectCycles(); err != nil {
		var cycleErr *dag.CycleError
		if errors.As(err, &cycleErr) {
			return malformed(s.nodes[cycleErr.Node].Name, "recursion must pass through a reference")
		}
		return err
	}

	for _, id := range local.PostOrder() {
		s.localOrder = append(s.localOrder, NodeID(id))
	}

	for k, comp := range all.Components() {
		ids := make([]NodeID, len(comp))
		for i, id := range comp {
			ids[i] = NodeID(id)
			s.nodes[id].Stratum = k
		}
		s.strata = append(s.strata, ids)
		s.cyclic = append(s.cyclic, all.Cyclic(comp))
	}

	s.referencedBy = make([][]string, n)
	for i := range s.nodes {
		node := &s.nodes[i]
		if node.Kind != KindReference {
			continue
		}
		inner := node.Inner()
		if !slices.Contains(s.referencedBy[inner], node.Predicate) {
			s.referencedBy[inner] = append(s.referencedBy[inner], node.Predicate)
		}
	}
	for i := range s.referencedBy {
		slices.Sort(s.referencedBy[i])
	}

	for i := range s.nodes {
		node := &s.nodes[i]
		if node.Kind != KindCardinality {
			continue
		}
		preds, all := edgePredicates(s, node.Inner())
		node.EdgePredicates = preds
		node.AllPredicates = all
	}
	return nil
}

// edgePredicates collects the predicates a single edge can carry and still
// match id. all is true when a node constraint can match an edge of any
// predicate.
func edgePredicates(s *Schema, id NodeID) (preds []string, all bool) {
	seen := make(map[NodeID]bool)
	var walk func(id NodeID)
	walk = func(id NodeID) {
		if seen[id] {
			return
		}
		seen[id] = true
		node := &s.nodes[id]
		switch node.Kind {
		case KindAny, KindValue:
			all = true
		case KindTriple, KindReference:
			if !slices.Contains(preds, node.Predicate) {
				preds = append(preds, node.Predicate)
			}
		case KindAnd, KindOr, KindCardinality:
			for _, child := range node.Children {
				walk(child)
			}
		}
	}
	walk(id)
	slices.Sort(preds)
	return preds, all
}
