// Package pregel evaluates a compiled shape.Schema over a graph.Graph with a
// vertex-centric, bulk-synchronous superstep loop.
//
// # Model
//
// Every (vertex, shape node) pair holds a tri-state Verdict in a flat table.
// Vertices are split into contiguous partitions, one per worker. In a
// superstep each worker re-evaluates the pending nodes of its active
// vertices against the table as committed at the end of the previous
// superstep, recording updates and outgoing messages in worker-owned
// buffers. A barrier follows, after which every partition commits its own
// updates and gathers the messages addressed to it. No cell is written by
// more than one worker and no worker reads a cell that is being written, so
// no locks are needed and the result does not depend on scheduling.
//
// A message is just the id of an in-neighbor that may depend on a verdict
// that was just decided. The in-neighbors are found through the graph's
// in-adjacency, filtered by the predicates of the references pointing at the
// decided node.
//
// # Recursion
//
// Verdicts move from Pending to Satisfied or NotSatisfied exactly once. When
// a superstep delivers no messages but pairs are still pending, they wait on
// each other through a reference cycle. The engine then picks the lowest
// schema stratum that has pending pairs and rules its pending references
// NotSatisfied, which is the least fixpoint for cycles. Propagation resumes
// from there. Strata are resolved bottom-up, so an upper-bounded Cardinality
// never sees a dependency forced before the cycle it sits on is settled.
//
// The number of supersteps is bounded by vertices × nodes + 2 × strata + 2.
// Exceeding the bound returns ErrNonConvergence.
package pregel
