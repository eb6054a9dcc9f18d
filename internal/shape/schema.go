package shape

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/pschema/internal/graph"
)

// NodeID identifies a node of a compiled Schema. Ids are dense, starting at
// zero, in the order nodes are first reached from the root.
type NodeID int

// Kind is the variant of a compiled node.
type Kind uint8

const (
	KindAny Kind = iota
	KindValue
	KindTriple
	KindAnd
	KindOr
	KindReference
	KindCardinality
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindValue:
		return "value"
	case KindTriple:
		return "triple"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	case KindReference:
		return "reference"
	case KindCardinality:
		return "cardinality"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Node is one shape of a compiled Schema. Nodes are read-only once the
// Schema is built.
type Node struct {
	ID   NodeID
	Kind Kind
	Name string

	// Predicate is set for KindTriple and KindReference.
	Predicate string
	// AnyObject is set for KindTriple when the object is unconstrained.
	AnyObject bool
	// Value is the required term of KindValue, and of KindTriple when
	// AnyObject is false.
	Value graph.Term

	// Children are the sub-shapes of KindAnd and KindOr, or the single inner
	// shape of KindReference and KindCardinality.
	Children []NodeID

	// Min and Max bound a KindCardinality node.
	Min, Max Bound
	// EdgePredicates lists the predicates an outgoing edge must carry to
	// possibly match the inner shape of a KindCardinality node. When
	// AllPredicates is set every edge is a candidate.
	EdgePredicates []string
	AllPredicates  bool

	// Stratum is the index of the strongly connected component the node
	// belongs to. Components are numbered so that a node's dependencies
	// never live in a higher stratum.
	Stratum int
}

// Inner returns the single child of a KindReference or KindCardinality node.
func (n *Node) Inner() NodeID { return n.Children[0] }

// Schema is the compiled, immutable form of a shape expression. It is safe
// for concurrent use.
type Schema struct {
	nodes      []Node
	root       NodeID
	strata     [][]NodeID
	cyclic     []bool
	localOrder []NodeID
	// referencedBy[n] holds the predicates of every reference whose inner
	// shape is n.
	referencedBy [][]string
	defs         map[string]NodeID
}

// Root returns the id of the root shape.
func (s *Schema) Root() NodeID { return s.root }

// Len returns the number of nodes.
func (s *Schema) Len() int { return len(s.nodes) }

// Node returns the node with the given id.
func (s *Schema) Node(id NodeID) *Node { return &s.nodes[id] }

// Nodes returns every node indexed by id. The slice must not be modified.
func (s *Schema) Nodes() []Node { return s.nodes }

// NumStrata returns the number of strata.
func (s *Schema) NumStrata() int { return len(s.strata) }

// Stratum returns the nodes of stratum k in ascending id order.
func (s *Schema) Stratum(k int) []NodeID { return s.strata[k] }

// Cyclic reports whether stratum k is recursive.
func (s *Schema) Cyclic(k int) bool { return s.cyclic[k] }

// LocalOrder lists every node after all of the nodes it depends on at the
// same vertex. Reference inner shapes are evaluated at other vertices and
// impose no order.
func (s *Schema) LocalOrder() []NodeID { return s.localOrder }

// ReferencedBy returns the predicates of the references whose inner shape is
// id. A verdict for id at a vertex is relevant to in-neighbors along these
// predicates only.
func (s *Schema) ReferencedBy(id NodeID) []string { return s.referencedBy[id] }

// Lookup returns the node a definition name compiled to.
func (s *Schema) Lookup(name string) (NodeID, bool) {
	id, ok := s.defs[name]
	return id, ok
}

// Compile resolves Refs against defs, deduplicates shared sub-shapes and
// computes the evaluation order. A root or definition that is itself a Ref is
// followed to its target.
func Compile(root Shape, defs ...Definition) (*Schema, error) {
	if isNil(root) {
		return nil, malformed("", "schema has no root shape")
	}
	c := &compiler{
		defs: make(map[string]Shape, len(defs)),
		ids:  make(map[Shape]NodeID),
	}
	for _, d := range defs {
		if d.Name == "" {
			return nil, malformed("", "definition without a name")
		}
		if isNil(d.Shape) {
			return nil, malformed(d.Name, "definition has no shape")
		}
		if _, dup := c.defs[d.Name]; dup {
			return nil, malformed(d.Name, "duplicate definition")
		}
		c.defs[d.Name] = d.Shape
	}

	rootID, err := c.add(root)
	if err != nil {
		return nil, err
	}
	schema := &Schema{
		nodes: c.nodes,
		root:  rootID,
		defs:  make(map[string]NodeID, len(defs)),
	}
	for _, d := range defs {
		// Unreachable definitions still have to be well-formed.
		id, err := c.add(d.Shape)
		if err != nil {
			return nil, err
		}
		schema.defs[d.Name] = id
	}
	schema.nodes = c.nodes

	if err := analyze(schema); err != nil {
		return nil, err
	}
	return schema, nil
}

// compiler turns the shape tree into the flat node table. It implements
// Visitor so that a new variant cannot be added without handling it here.
type compiler struct {
	defs  map[string]Shape
	ids   map[Shape]NodeID
	nodes []Node
	cur   NodeID
}

func (c *compiler) resolve(s Shape) (Shape, error) {
	var chain []string
	for {
		ref, ok := s.(*Ref)
		if !ok {
			return s, nil
		}
		if slices.Contains(chain, ref.target) {
			return nil, malformed(ref.target, "definition refers only to itself")
		}
		chain = append(chain, ref.target)
		target, ok := c.defs[ref.target]
		if !ok {
			return nil, malformed(ref.target, "reference to an unknown definition")
		}
		s = target
	}
}

func (c *compiler) add(s Shape) (NodeID, error) {
	s, err := c.resolve(s)
	if err != nil {
		return 0, err
	}
	if id, ok := c.ids[s]; ok {
		return id, nil
	}
	id := NodeID(len(c.nodes))
	c.ids[s] = id
	c.nodes = append(c.nodes, Node{ID: id, Name: s.Name()})

	prev := c.cur
	c.cur = id
	err = s.Accept(c)
	c.cur = prev
	return id, err
}

func (c *compiler) addAll(shapes []Shape) ([]NodeID, error) {
	ids := make([]NodeID, 0, len(shapes))
	for _, sub := range shapes {
		id, err := c.add(sub)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *compiler) VisitNodeConstraint(s *NodeConstraint) error {
	n := &c.nodes[c.cur]
	if s.any {
		n.Kind = KindAny
		return nil
	}
	n.Kind = KindValue
	n.Value = s.value
	return nil
}

func (c *compiler) VisitTripleConstraint(s *TripleConstraint) error {
	n := &c.nodes[c.cur]
	n.Kind = KindTriple
	n.Predicate = s.predicate
	n.AnyObject = s.constraint.any
	if !s.constraint.any {
		n.Value = s.constraint.value
	}
	return nil
}

func (c *compiler) VisitAnd(s *ShapeAnd) error {
	id := c.cur
	c.nodes[id].Kind = KindAnd
	children, err := c.addAll(s.shapes)
	if err != nil {
		return err
	}
	c.nodes[id].Children = children
	return nil
}

func (c *compiler) VisitOr(s *ShapeOr) error {
	id := c.cur
	c.nodes[id].Kind = KindOr
	children, err := c.addAll(s.shapes)
	if err != nil {
		return err
	}
	c.nodes[id].Children = children
	return nil
}

func (c *compiler) VisitReference(s *ShapeReference) error {
	id := c.cur
	c.nodes[id].Kind = KindReference
	c.nodes[id].Predicate = s.predicate
	inner, err := c.add(s.inner)
	if err != nil {
		return err
	}
	c.nodes[id].Children = []NodeID{inner}
	return nil
}

func (c *compiler) VisitCardinality(s *Cardinality) error {
	id := c.cur
	c.nodes[id].Kind = KindCardinality
	c.nodes[id].Min = s.min
	c.nodes[id].Max = s.max
	inner, err := c.add(s.inner)
	if err != nil {
		return err
	}
	c.nodes[id].Children = []NodeID{inner}
	return nil
}

func (c *compiler) VisitRef(s *Ref) error {
	// add resolves every Ref before dispatching.
	return malformed(s.target, "unresolved reference")
}
