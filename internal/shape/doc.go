// Package shape defines shape expressions, the declarative constraints a
// vertex's neighborhood is validated against, and compiles them into the
// immutable Schema the evaluator runs on.
//
// # Variants
//
// The set of variants is closed:
//
//   - NodeConstraint: Any, or Value(term). Tests the focus term.
//   - TripleConstraint: an outgoing edge with a predicate whose object passes a NodeConstraint.
//   - ShapeAnd / ShapeOr: conjunction and disjunction over ordered sub-shapes.
//   - ShapeReference: an outgoing edge with a predicate leads to a vertex satisfying the inner shape.
//   - Cardinality: the number of outgoing edges matching the inner shape lies within [min, max].
//
// Ref names a Definition and is resolved by Compile; it is how a reference
// points at a shape defined later, or at itself, forming a cyclic schema.
//
// Every variant is visited through the Visitor interface. Adding a variant
// means adding a Visitor method, which breaks every implementation until it
// handles the new case.
//
// # Construction
//
// Constructors validate eagerly. A schema that compiles never fails during
// evaluation.
package shape
