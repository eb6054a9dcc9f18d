package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iri(s string) Term { return NewIRI(s) }

// buildTestGraph creates a small graph:
//
//	a -knows-> b, a -knows-> c, a -name-> "Alice", b -knows-> a
func buildTestGraph(t *testing.T) *Graph {
	t.Helper()
	l := NewEdgeList()
	l.AddTriple(iri("a"), "<knows>", iri("c"))
	l.AddTriple(iri("a"), "knows", iri("b"))
	l.AddTriple(iri("a"), "name", NewLiteral("Alice"))
	l.AddTriple(iri("b"), "knows", iri("a"))
	g, err := FromEdges(l)
	require.NoError(t, err)
	return g
}

func TestFromEdges_Errors(t *testing.T) {
	t.Run("nil list", func(t *testing.T) {
		_, err := FromEdges(nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConstruction))
	})

	t.Run("empty list", func(t *testing.T) {
		_, err := FromEdges(NewEdgeList())
		var cerr *ConstructionError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, KindEmptyEdgeList, cerr.Kind)
	})

	t.Run("dangling object", func(t *testing.T) {
		l := &EdgeList{
			Vertices: []Term{iri("a")},
			Edges:    []Edge{{Subject: 0, Predicate: "p", Object: 3}},
		}
		_, err := FromEdges(l)
		var cerr *ConstructionError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, KindDanglingEdge, cerr.Kind)
		assert.Equal(t, 0, cerr.Edge)
		assert.ErrorContains(t, err, "object vertex 3")
	})

	t.Run("dangling subject", func(t *testing.T) {
		l := &EdgeList{
			Vertices: []Term{iri("a")},
			Edges:    []Edge{{Subject: 0, Predicate: "p", Object: 0}, {Subject: 9, Predicate: "p", Object: 0}},
		}
		_, err := FromEdges(l)
		var cerr *ConstructionError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, 1, cerr.Edge)
	})

	t.Run("empty predicate", func(t *testing.T) {
		l := NewEdgeList()
		l.AddTriple(iri("a"), "<>", iri("b"))
		_, err := FromEdges(l)
		var cerr *ConstructionError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, KindEmptyPredicate, cerr.Kind)
	})
}

func TestFromEdges_Index(t *testing.T) {
	g := buildTestGraph(t)

	assert.Equal(t, 4, g.NumVertices())
	assert.Equal(t, 4, g.NumEdges())
	assert.Equal(t, 2, g.NumPredicates())

	a, ok := g.Lookup(iri("a"))
	require.True(t, ok)
	knows, ok := g.Predicate("<knows>")
	require.True(t, ok)
	assert.Equal(t, "knows", g.PredicateLabel(knows))

	lo, hi := g.OutRange(a)
	assert.Equal(t, 3, int(hi-lo))

	lo, hi = g.OutByPredicate(a, knows)
	require.Equal(t, 2, int(hi-lo))
	// Arcs of one predicate are sorted by object id: c was interned before b.
	assert.Equal(t, iri("c"), g.Vertex(g.Arc(lo).Object))
	assert.Equal(t, iri("b"), g.Vertex(g.Arc(lo+1).Object))

	_, ok = g.Predicate("missing")
	assert.False(t, ok)
}

func TestFromEdges_InAdjacency(t *testing.T) {
	g := buildTestGraph(t)
	a, _ := g.Lookup(iri("a"))
	b, _ := g.Lookup(iri("b"))

	in := g.In(a)
	require.Len(t, in, 1)
	assert.Equal(t, b, g.Arc(in[0]).Subject)

	in = g.In(b)
	require.Len(t, in, 1)
	assert.Equal(t, a, g.Arc(in[0]).Subject)
}

func TestFromEdges_DeduplicatesEdges(t *testing.T) {
	l := NewEdgeList()
	l.AddTriple(iri("a"), "p", iri("b"))
	l.AddTriple(iri("a"), "<p>", iri("b"))
	g, err := FromEdges(l)
	require.NoError(t, err)
	assert.Equal(t, 1, g.NumEdges())
}

func TestFromEdges_MergesRepeatedTerms(t *testing.T) {
	l := &EdgeList{
		Vertices: []Term{iri("x"), NewLiteral("v1"), NewLiteral("v1"), iri("x")},
		Edges: []Edge{
			{Subject: 0, Predicate: "p", Object: 2},
			{Subject: 3, Predicate: "p", Object: 1},
			{Subject: 3, Predicate: "q", Object: 2},
		},
	}
	g, err := FromEdges(l)
	require.NoError(t, err)

	assert.Equal(t, 2, g.NumVertices())
	assert.Equal(t, 2, g.NumEdges())

	x, ok := g.Lookup(iri("x"))
	require.True(t, ok)
	v1, ok := g.Lookup(NewLiteral("v1"))
	require.True(t, ok)

	p, ok := g.Predicate("p")
	require.True(t, ok)
	lo, hi := g.OutByPredicate(x, p)
	require.Equal(t, EdgeID(1), hi-lo)
	assert.Equal(t, v1, g.Arc(lo).Object)
	assert.Len(t, g.In(v1), 2)
}

func TestFromEdges_DoesNotRetainList(t *testing.T) {
	l := NewEdgeList()
	l.AddTriple(iri("a"), "p", iri("b"))
	g, err := FromEdges(l)
	require.NoError(t, err)

	l.Vertices[0] = iri("mutated")
	assert.Equal(t, iri("a"), g.Vertex(0))
}

func TestOutByPredicate_Absent(t *testing.T) {
	g := buildTestGraph(t)
	c, _ := g.Lookup(iri("c"))
	knows, _ := g.Predicate("knows")
	lo, hi := g.OutByPredicate(c, knows)
	assert.Equal(t, lo, hi)
}

func TestSubgraph(t *testing.T) {
	g := buildTestGraph(t)
	a, _ := g.Lookup(iri("a"))
	name, _ := g.Predicate("name")
	lo, _ := g.OutByPredicate(a, name)

	sg := NewSubgraph(g, []EdgeID{lo, lo, 0}, []VertexID{a, a}, map[VertexID][]string{a: {"z", "a", "z"}})
	require.Equal(t, 2, sg.Len())
	assert.Equal(t, Triple{Subject: iri("a"), Predicate: "knows", Object: iri("c")}, sg.Triples[0])
	assert.Equal(t, Triple{Subject: iri("a"), Predicate: "name", Object: NewLiteral("Alice")}, sg.Triples[1])
	assert.Equal(t, []Term{iri("a")}, sg.Focus)
	assert.Equal(t, []string{"a", "z"}, sg.Labels["<a>"])
	assert.Equal(t, []Term{iri("a"), iri("c"), NewLiteral("Alice")}, sg.Vertices())

	back, err := FromEdges(sg.EdgeList())
	require.NoError(t, err)
	assert.Equal(t, 2, back.NumEdges())
}

func TestSubgraph_Empty(t *testing.T) {
	var sg *Subgraph
	assert.True(t, sg.IsEmpty())
	assert.Equal(t, 0, sg.Len())
}
