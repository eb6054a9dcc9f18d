package testutil

import (
	"testing"

	"github.com/specialistvlad/pschema/internal/graph"
	"github.com/stretchr/testify/require"
)

// Term parses a term in N-Triples notation and panics on malformed input.
func Term(s string) graph.Term {
	t, err := graph.ParseTerm(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Triple builds a materialized triple from N-Triples terms.
func Triple(s, p, o string) graph.Triple {
	return graph.Triple{Subject: Term(s), Predicate: p, Object: Term(o)}
}

// EdgeList builds an edge list from (subject, predicate, object) triples in
// N-Triples term notation.
func EdgeList(triples ...[3]string) *graph.EdgeList {
	l := graph.NewEdgeList()
	for _, tr := range triples {
		l.AddTriple(Term(tr[0]), tr[1], Term(tr[2]))
	}
	return l
}

// BuildGraph is EdgeList followed by graph.FromEdges.
func BuildGraph(t *testing.T, triples ...[3]string) *graph.Graph {
	t.Helper()
	g, err := graph.FromEdges(EdgeList(triples...))
	require.NoError(t, err)
	return g
}
