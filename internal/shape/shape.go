package shape

import (
	"github.com/specialistvlad/pschema/internal/graph"
)

// Shape is implemented by every shape variant.
type Shape interface {
	// Name is the diagnostic name. It appears in errors and result labels.
	Name() string
	// Accept dispatches to the Visitor method of the concrete variant.
	Accept(v Visitor) error
}

// Visitor has one method per variant.
type Visitor interface {
	VisitNodeConstraint(s *NodeConstraint) error
	VisitTripleConstraint(s *TripleConstraint) error
	VisitAnd(s *ShapeAnd) error
	VisitOr(s *ShapeOr) error
	VisitReference(s *ShapeReference) error
	VisitCardinality(s *Cardinality) error
	VisitRef(s *Ref) error
}

// Must panics if err is non-nil. It is meant for statically known shapes.
func Must[S Shape](s S, err error) S {
	if err != nil {
		panic(err)
	}
	return s
}

// NodeConstraint tests a single term: Any accepts everything, Value accepts
// exactly one term.
type NodeConstraint struct {
	name  string
	any   bool
	value graph.Term
}

// Any returns the constraint that every term satisfies.
func Any() *NodeConstraint {
	return &NodeConstraint{name: "any", any: true}
}

// Value returns the constraint satisfied only by a term equal to t.
// Equality is exact; no coercion between literal forms is performed.
func Value(t graph.Term) *NodeConstraint {
	return &NodeConstraint{name: "value", value: t}
}

// Named returns a copy of the constraint carrying the given diagnostic name.
func (s *NodeConstraint) Named(name string) *NodeConstraint {
	c := *s
	if name != "" {
		c.name = name
	}
	return &c
}

func (s *NodeConstraint) Name() string           { return s.name }
func (s *NodeConstraint) Accept(v Visitor) error { return v.VisitNodeConstraint(s) }
func (s *NodeConstraint) IsAny() bool            { return s.any }

// Term returns the required term of a Value constraint.
func (s *NodeConstraint) Term() graph.Term { return s.value }

// TripleConstraint is satisfied by a vertex with at least one outgoing edge
// labelled Predicate whose object passes the node constraint.
type TripleConstraint struct {
	name       string
	predicate  string
	constraint *NodeConstraint
}

// NewTripleConstraint builds a TripleConstraint. A nil constraint means Any.
func NewTripleConstraint(name, predicate string, nc *NodeConstraint) (*TripleConstraint, error) {
	p := graph.NormalizePredicate(predicate)
	if p == "" {
		return nil, malformed(name, "triple constraint has an empty predicate")
	}
	if nc == nil {
		nc = Any()
	}
	return &TripleConstraint{name: name, predicate: p, constraint: nc}, nil
}

func (s *TripleConstraint) Name() string                { return s.name }
func (s *TripleConstraint) Accept(v Visitor) error      { return v.VisitTripleConstraint(s) }
func (s *TripleConstraint) Predicate() string           { return s.predicate }
func (s *TripleConstraint) Constraint() *NodeConstraint { return s.constraint }

// ShapeAnd is satisfied when every sub-shape is satisfied.
type ShapeAnd struct {
	name   string
	shapes []Shape
}

// NewAnd builds a conjunction. At least one sub-shape is required.
func NewAnd(name string, shapes ...Shape) (*ShapeAnd, error) {
	if err := checkSubShapes(name, "and", shapes); err != nil {
		return nil, err
	}
	return &ShapeAnd{name: name, shapes: append([]Shape(nil), shapes...)}, nil
}

func (s *ShapeAnd) Name() string           { return s.name }
func (s *ShapeAnd) Accept(v Visitor) error { return v.VisitAnd(s) }

// Shapes returns the sub-shapes in declaration order.
func (s *ShapeAnd) Shapes() []Shape { return s.shapes }

// ShapeOr is satisfied when at least one sub-shape is satisfied.
type ShapeOr struct {
	name   string
	shapes []Shape
}

// NewOr builds a disjunction. At least one sub-shape is required.
func NewOr(name string, shapes ...Shape) (*ShapeOr, error) {
	if err := checkSubShapes(name, "or", shapes); err != nil {
		return nil, err
	}
	return &ShapeOr{name: name, shapes: append([]Shape(nil), shapes...)}, nil
}

func (s *ShapeOr) Name() string           { return s.name }
func (s *ShapeOr) Accept(v Visitor) error { return v.VisitOr(s) }

// Shapes returns the sub-shapes in declaration order.
func (s *ShapeOr) Shapes() []Shape { return s.shapes }

// ShapeReference is satisfied by a vertex with at least one outgoing edge
// labelled Predicate whose object satisfies the inner shape.
type ShapeReference struct {
	name      string
	predicate string
	inner     Shape
}

// NewReference builds a ShapeReference. The inner shape may be a Ref to
// express recursion.
func NewReference(name, predicate string, inner Shape) (*ShapeReference, error) {
	p := graph.NormalizePredicate(predicate)
	if p == "" {
		return nil, malformed(name, "reference has an empty predicate")
	}
	if isNil(inner) {
		return nil, malformed(name, "reference has no inner shape")
	}
	return &ShapeReference{name: name, predicate: p, inner: inner}, nil
}

func (s *ShapeReference) Name() string           { return s.name }
func (s *ShapeReference) Accept(v Visitor) error { return v.VisitReference(s) }
func (s *ShapeReference) Predicate() string      { return s.predicate }
func (s *ShapeReference) Inner() Shape           { return s.inner }

// Cardinality is satisfied when the number of outgoing edges of the focus
// vertex that match the inner shape lies within [Min, Max].
type Cardinality struct {
	name     string
	inner    Shape
	min, max Bound
}

// NewCardinality builds a Cardinality. Min must be finite and not exceed Max.
func NewCardinality(name string, inner Shape, min, max Bound) (*Cardinality, error) {
	if isNil(inner) {
		return nil, malformed(name, "cardinality has no inner shape")
	}
	if min.IsMany() {
		return nil, malformed(name, "cardinality minimum cannot be many")
	}
	if min.Value() < 0 || max.Value() < 0 {
		return nil, malformed(name, "cardinality bounds must not be negative, got %s and %s", min, max)
	}
	if !max.IsMany() && min.Value() > max.Value() {
		return nil, malformed(name, "cardinality minimum %s exceeds maximum %s", min, max)
	}
	return &Cardinality{name: name, inner: inner, min: min, max: max}, nil
}

func (s *Cardinality) Name() string           { return s.name }
func (s *Cardinality) Accept(v Visitor) error { return v.VisitCardinality(s) }
func (s *Cardinality) Inner() Shape           { return s.inner }
func (s *Cardinality) Min() Bound             { return s.min }
func (s *Cardinality) Max() Bound             { return s.max }

// Ref stands for the Definition of the same name. It is resolved by Compile.
type Ref struct {
	target string
}

// NewRef returns a reference to the definition called target.
func NewRef(target string) (*Ref, error) {
	if target == "" {
		return nil, malformed("", "reference to an unnamed definition")
	}
	return &Ref{target: target}, nil
}

func (s *Ref) Name() string           { return s.target }
func (s *Ref) Accept(v Visitor) error { return v.VisitRef(s) }
func (s *Ref) Target() string         { return s.target }

// Definition binds a name to a shape so that Refs can point at it.
type Definition struct {
	Name  string
	Shape Shape
}

// Define is shorthand for Definition{Name: name, Shape: s}.
func Define(name string, s Shape) Definition {
	return Definition{Name: name, Shape: s}
}

func checkSubShapes(name, kind string, shapes []Shape) error {
	if len(shapes) == 0 {
		return malformed(name, "%s has no sub-shapes", kind)
	}
	for i, s := range shapes {
		if isNil(s) {
			return malformed(name, "%s sub-shape %d is nil", kind, i)
		}
	}
	return nil
}

// isNil catches both a nil interface and a typed nil pointer.
func isNil(s Shape) bool {
	if s == nil {
		return true
	}
	switch v := s.(type) {
	case *NodeConstraint:
		return v == nil
	case *TripleConstraint:
		return v == nil
	case *ShapeAnd:
		return v == nil
	case *ShapeOr:
		return v == nil
	case *ShapeReference:
		return v == nil
	case *Cardinality:
		return v == nil
	case *Ref:
		return v == nil
	}
	return false
}
