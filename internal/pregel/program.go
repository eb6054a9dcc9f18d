package pregel

import (
	"github.com/specialistvlad/pschema/internal/graph"
	"github.com/specialistvlad/pschema/internal/shape"
)

// op is a schema node with its predicates and value terms resolved against
// one graph. A predicate or term that does not occur in the graph cannot
// match anything; the has* flags record that.
type op struct {
	kind     shape.Kind
	name     string
	children []shape.NodeID

	pred    graph.PredicateID
	hasPred bool

	anyObject bool
	value     graph.VertexID
	hasValue  bool

	min, max  int
	edgePreds []graph.PredicateID
	allPreds  bool

	// notify lists the predicates along which a decided verdict of this node
	// must be announced to in-neighbors.
	notify []graph.PredicateID

	stratum   int
	reachable bool
}

func (o *op) inner() shape.NodeID { return o.children[0] }

// program is the per-run binding of a schema to a graph.
type program struct {
	ops    []op
	root   shape.NodeID
	order  []shape.NodeID
	strata [][]shape.NodeID
}

func bind(g *graph.Graph, s *shape.Schema) *program {
	p := &program{
		ops:    make([]op, s.Len()),
		root:   s.Root(),
		strata: make([][]shape.NodeID, s.NumStrata()),
	}
	for i, n := range s.Nodes() {
		o := &p.ops[i]
		o.kind = n.Kind
		o.name = n.Name
		o.children = n.Children
		o.anyObject = n.AnyObject
		o.stratum = n.Stratum
		o.allPreds = n.AllPredicates
		o.min = n.Min.Value()
		o.max = n.Max.Value()

		if n.Kind == shape.KindTriple || n.Kind == shape.KindReference {
			o.pred, o.hasPred = g.Predicate(n.Predicate)
		}
		if n.Kind == shape.KindValue || (n.Kind == shape.KindTriple && !n.AnyObject) {
			o.value, o.hasValue = g.Lookup(n.Value)
		}
		for _, label := range n.EdgePredicates {
			if pid, ok := g.Predicate(label); ok {
				o.edgePreds = append(o.edgePreds, pid)
			}
		}
		for _, label := range s.ReferencedBy(n.ID) {
			if pid, ok := g.Predicate(label); ok {
				o.notify = append(o.notify, pid)
			}
		}
	}

	// Only nodes reachable from the root are evaluated.
	stack := []shape.NodeID{p.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.ops[id].reachable {
			continue
		}
		p.ops[id].reachable = true
		stack = append(stack, p.ops[id].children...)
	}
	for _, id := range s.LocalOrder() {
		if p.ops[id].reachable {
			p.order = append(p.order, id)
		}
	}
	for k := range p.strata {
		for _, id := range s.Stratum(k) {
			if p.ops[id].reachable {
				p.strata[k] = append(p.strata[k], id)
			}
		}
	}
	return p
}

func (p *program) numNodes() int { return len(p.ops) }
