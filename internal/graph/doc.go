// Package graph provides the immutable property graph that shape schemas are
// validated against, together with the canonical data shapes exchanged with
// storage backends: an EdgeList going in and a Subgraph coming out.
//
// # Model
//
// Every subject and object of a triple is a vertex. Literal objects are
// vertices too, which lets value constraints and structural hops share one
// representation: a vertex is identified by a dense VertexID and carries the
// Term it was created from.
//
// # Layout
//
// FromEdges builds a compressed adjacency index:
//
//	vertices  []Term       VertexID -> Term
//	arcs      []Arc        sorted by (subject, predicate, object)
//	outOffset []uint32     arcs[outOffset[v]:outOffset[v+1]] are v's outgoing arcs
//	inOffset  []uint32     inArcs[inOffset[v]:inOffset[v+1]] are arcs pointing at v
//
// Predicates are interned as PredicateID in sorted label order, so the arcs of a
// vertex are grouped by predicate and OutByPredicate is a binary search.
//
// # Thread-Safety
//
// A Graph is never mutated after FromEdges returns. All methods are safe to
// call from any number of goroutines without synchronization.
package graph
