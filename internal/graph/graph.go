package graph

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// PredicateID is the interned identifier of a predicate label.
type PredicateID uint32

// EdgeID identifies an arc by its position in the graph's sorted arc table.
type EdgeID uint32

// Arc is a stored edge with an interned predicate.
type Arc struct {
	Subject   VertexID
	Predicate PredicateID
	Object    VertexID
}

// Graph is an immutable property graph indexed for outgoing lookups by vertex
// and predicate, and for incoming lookups by vertex.
type Graph struct {
	vertices   []Term
	index      map[Term]VertexID
	predicates []string
	predIndex  map[string]PredicateID
	arcs       []Arc
	outOffset  []uint32
	inOffset   []uint32
	inArcs     []EdgeID
}

// NormalizePredicate returns the canonical label for a predicate: surrounding
// whitespace and angle brackets are removed, so "<http://x/p>" and
// "http://x/p" name the same predicate.
func NormalizePredicate(p string) string {
	p = strings.TrimSpace(p)
	if strings.HasPrefix(p, "<") && strings.HasSuffix(p, ">") {
		p = p[1 : len(p)-1]
	}
	return p
}

// FromEdges builds a Graph from an edge list. It fails if the list has no
// edges, if an edge has an empty predicate, or if an edge references a vertex
// outside list.Vertices. Vertices carrying the same term become one vertex
// and duplicate edges are collapsed. The list is not retained.
func FromEdges(list *EdgeList) (*Graph, error) {
	if list == nil || len(list.Edges) == 0 {
		return nil, &ConstructionError{Kind: KindEmptyEdgeList, Edge: -1, Msg: "edge list has no edges"}
	}

	n := len(list.Vertices)
	labels := make(map[string]struct{})
	for i, e := range list.Edges {
		if int(e.Subject) >= n {
			return nil, &ConstructionError{Kind: KindDanglingEdge, Edge: i, Msg: fmt.Sprintf("subject vertex %d does not exist (%d vertices)", e.Subject, n)}
		}
		if int(e.Object) >= n {
			return nil, &ConstructionError{Kind: KindDanglingEdge, Edge: i, Msg: fmt.Sprintf("object vertex %d does not exist (%d vertices)", e.Object, n)}
		}
		p := NormalizePredicate(e.Predicate)
		if p == "" {
			return nil, &ConstructionError{Kind: KindEmptyPredicate, Edge: i, Msg: "predicate is empty"}
		}
		labels[p] = struct{}{}
	}

	g := &Graph{
		vertices:  make([]Term, 0, n),
		index:     make(map[Term]VertexID, n),
		predIndex: make(map[string]PredicateID, len(labels)),
	}
	// Repeated terms collapse into the vertex of their first occurrence.
	remap := make([]VertexID, n)
	for i, t := range list.Vertices {
		id, ok := g.index[t]
		if !ok {
			id = VertexID(len(g.vertices))
			g.index[t] = id
			g.vertices = append(g.vertices, t)
		}
		remap[i] = id
	}
	n = len(g.vertices)

	g.predicates = make([]string, 0, len(labels))
	for p := range labels {
		g.predicates = append(g.predicates, p)
	}
	sort.Strings(g.predicates)
	for i, p := range g.predicates {
		g.predIndex[p] = PredicateID(i)
	}

	arcs := make([]Arc, 0, len(list.Edges))
	for _, e := range list.Edges {
		arcs = append(arcs, Arc{
			Subject:   remap[e.Subject],
			Predicate: g.predIndex[NormalizePredicate(e.Predicate)],
			Object:    remap[e.Object],
		})
	}
	slices.SortFunc(arcs, compareArcs)
	g.arcs = slices.Compact(arcs)

	g.outOffset = make([]uint32, n+1)
	g.inOffset = make([]uint32, n+1)
	for _, a := range g.arcs {
		g.outOffset[a.Subject+1]++
		g.inOffset[a.Object+1]++
	}
	for v := 0; v < n; v++ {
		g.outOffset[v+1] += g.outOffset[v]
		g.inOffset[v+1] += g.inOffset[v]
	}

	g.inArcs = make([]EdgeID, len(g.arcs))
	cursor := slices.Clone(g.inOffset[:n])
	for id, a := range g.arcs {
		g.inArcs[cursor[a.Object]] = EdgeID(id)
		cursor[a.Object]++
	}

	return g, nil
}

func compareArcs(a, b Arc) int {
	if c := cmp.Compare(a.Subject, b.Subject); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Predicate, b.Predicate); c != 0 {
		return c
	}
	return cmp.Compare(a.Object, b.Object)
}

// NumVertices returns the number of vertices.
func (g *Graph) NumVertices() int { return len(g.vertices) }

// NumEdges returns the number of distinct edges.
func (g *Graph) NumEdges() int { return len(g.arcs) }

// NumPredicates returns the number of distinct predicate labels.
func (g *Graph) NumPredicates() int { return len(g.predicates) }

// Vertex returns the term of vertex v.
func (g *Graph) Vertex(v VertexID) Term { return g.vertices[v] }

// Lookup returns the vertex carrying term t.
func (g *Graph) Lookup(t Term) (VertexID, bool) {
	v, ok := g.index[t]
	return v, ok
}

// Predicate returns the id of a predicate label. The label is normalized
// first. A label that no edge uses is reported as absent.
func (g *Graph) Predicate(label string) (PredicateID, bool) {
	p, ok := g.predIndex[NormalizePredicate(label)]
	return p, ok
}

// PredicateLabel returns the label of predicate p.
func (g *Graph) PredicateLabel(p PredicateID) string { return g.predicates[p] }

// Arc returns the edge with the given id.
func (g *Graph) Arc(id EdgeID) Arc { return g.arcs[id] }

// OutRange returns the half-open id range [lo, hi) of v's outgoing arcs.
func (g *Graph) OutRange(v VertexID) (lo, hi EdgeID) {
	return EdgeID(g.outOffset[v]), EdgeID(g.outOffset[v+1])
}

// OutByPredicate returns the half-open id range [lo, hi) of v's outgoing arcs
// labeled p. The range is empty if there are none.
func (g *Graph) OutByPredicate(v VertexID, p PredicateID) (lo, hi EdgeID) {
	start, end := int(g.outOffset[v]), int(g.outOffset[v+1])
	out := g.arcs[start:end]
	i := sort.Search(len(out), func(i int) bool { return out[i].Predicate >= p })
	j := i
	for j < len(out) && out[j].Predicate == p {
		j++
	}
	return EdgeID(start + i), EdgeID(start + j)
}

// In returns the ids of the arcs whose object is v. The returned slice is
// shared and must not be modified.
func (g *Graph) In(v VertexID) []EdgeID {
	return g.inArcs[g.inOffset[v]:g.inOffset[v+1]]
}

// Triple materializes edge id as an independently owned triple.
func (g *Graph) Triple(id EdgeID) Triple {
	a := g.arcs[id]
	return Triple{
		Subject:   g.vertices[a.Subject],
		Predicate: g.predicates[a.Predicate],
		Object:    g.vertices[a.Object],
	}
}
