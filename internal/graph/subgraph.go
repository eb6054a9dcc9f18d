package graph

import (
	"slices"
	"sort"
)

// Triple is an edge with its endpoints and predicate fully materialized. It
// does not reference the Graph it came from.
type Triple struct {
	Subject   Term
	Predicate string
	Object    Term
}

// Subgraph is the output of a validation run: the witness triples, the focus
// vertices that satisfied the root shape, and for every vertex touched while
// collecting witnesses the names of the shapes it satisfied.
//
// A Subgraph owns its data and outlives the Graph it was extracted from.
type Subgraph struct {
	Triples []Triple
	Focus   []Term
	// Labels is keyed by Term.String() of the vertex.
	Labels map[string][]string
}

// NewSubgraph materializes the given edges of g. Edge ids are deduplicated and
// emitted in graph order, which is (subject, predicate, object) order, so the
// result is independent of the order ids were collected in.
func NewSubgraph(g *Graph, edges []EdgeID, focus []VertexID, labels map[VertexID][]string) *Subgraph {
	ids := slices.Clone(edges)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	sg := &Subgraph{
		Triples: make([]Triple, 0, len(ids)),
		Focus:   make([]Term, 0, len(focus)),
		Labels:  make(map[string][]string, len(labels)),
	}
	for _, id := range ids {
		sg.Triples = append(sg.Triples, g.Triple(id))
	}

	fs := slices.Clone(focus)
	slices.Sort(fs)
	for _, v := range slices.Compact(fs) {
		sg.Focus = append(sg.Focus, g.Vertex(v))
	}

	for v, names := range labels {
		ns := slices.Clone(names)
		sort.Strings(ns)
		sg.Labels[g.Vertex(v).String()] = slices.Compact(ns)
	}
	return sg
}

// Len returns the number of triples.
func (s *Subgraph) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Triples)
}

// IsEmpty reports whether the subgraph has no triples.
func (s *Subgraph) IsEmpty() bool { return s.Len() == 0 }

// Vertices returns the distinct endpoints of the subgraph's triples in first
// appearance order.
func (s *Subgraph) Vertices() []Term {
	seen := make(map[Term]struct{}, 2*len(s.Triples))
	var out []Term
	for _, t := range s.Triples {
		for _, v := range [2]Term{t.Subject, t.Object} {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// EdgeList converts the subgraph back into the canonical import form, so a
// result can be fed to FromEdges or handed to any backend.
func (s *Subgraph) EdgeList() *EdgeList {
	l := NewEdgeList()
	for _, t := range s.Triples {
		l.AddTriple(t.Subject, t.Predicate, t.Object)
	}
	return l
}
