package pregel

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/pschema/internal/ctxlog"
	"github.com/specialistvlad/pschema/internal/graph"
	"github.com/specialistvlad/pschema/internal/shape"
)

// pair is a (vertex, node) key.
type pair struct {
	v graph.VertexID
	n shape.NodeID
}

// collector gathers witnesses for one partition of focus vertices.
type collector struct {
	eval    *evaluator
	visited map[pair]struct{}
	queue   []pair
	edges   []graph.EdgeID
	labels  map[graph.VertexID][]string
}

// Extract walks the final verdicts from every vertex satisfying the root and
// returns the witness subgraph. Only edges that witness a Satisfied node
// reachable from the root are included.
func (e *Engine) Extract(ctx context.Context, res *Result) (*graph.Subgraph, error) {
	if res == nil || e.eval == nil {
		return nil, errors.New("extract called before a successful run")
	}
	root := e.prog.root
	collectors := make([]*collector, len(e.parts))
	focus := make([][]graph.VertexID, len(e.parts))

	err := e.parallel(ctx, func(p *partition) {
		c := &collector{
			eval:    e.eval,
			visited: make(map[pair]struct{}),
			labels:  make(map[graph.VertexID][]string),
		}
		for v := p.lo; v < p.hi; v++ {
			if res.Verdicts.At(v, root) != Satisfied {
				continue
			}
			focus[p.index] = append(focus[p.index], v)
			c.push(v, root)
		}
		c.drain()
		collectors[p.index] = c
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extraction interrupted: %w", err)
	}

	var (
		edges  []graph.EdgeID
		roots  []graph.VertexID
		labels = make(map[graph.VertexID][]string)
	)
	for i, c := range collectors {
		edges = append(edges, c.edges...)
		roots = append(roots, focus[i]...)
		for v, names := range c.labels {
			labels[v] = append(labels[v], names...)
		}
	}
	sg := graph.NewSubgraph(e.g, edges, roots, labels)
	ctxlog.FromContext(ctx).Debug("Witness subgraph extracted.", "focus", len(sg.Focus), "triples", sg.Len())
	return sg, nil
}

func (c *collector) push(v graph.VertexID, n shape.NodeID) {
	k := pair{v, n}
	if _, ok := c.visited[k]; ok {
		return
	}
	c.visited[k] = struct{}{}
	c.queue = append(c.queue, k)
}

func (c *collector) drain() {
	for len(c.queue) > 0 {
		k := c.queue[len(c.queue)-1]
		c.queue = c.queue[:len(c.queue)-1]
		c.vertex(k.v, k.n)
	}
}

// vertex records the witnesses of node n, which is Satisfied at v.
func (c *collector) vertex(v graph.VertexID, n shape.NodeID) {
	e := c.eval
	o := &e.prog.ops[n]
	if o.name != "" {
		c.labels[v] = append(c.labels[v], o.name)
	}
	switch o.kind {
	case shape.KindAny, shape.KindValue:

	case shape.KindTriple:
		lo, hi := e.g.OutByPredicate(v, o.pred)
		for id := lo; id < hi; id++ {
			if o.anyObject || e.g.Arc(id).Object == o.value {
				c.edges = append(c.edges, id)
			}
		}

	case shape.KindAnd:
		for _, ch := range o.children {
			c.push(v, ch)
		}

	case shape.KindOr:
		for _, ch := range o.children {
			if e.table.At(v, ch) == Satisfied {
				c.push(v, ch)
			}
		}

	case shape.KindReference:
		inner := o.inner()
		lo, hi := e.g.OutByPredicate(v, o.pred)
		for id := lo; id < hi; id++ {
			w := e.g.Arc(id).Object
			if e.table.At(w, inner) == Satisfied {
				c.edges = append(c.edges, id)
				c.push(w, inner)
			}
		}

	case shape.KindCardinality:
		inner := o.inner()
		e.candidates(v, o, func(id graph.EdgeID) bool {
			a := e.g.Arc(id)
			if e.edge(a, inner) == Satisfied {
				c.edges = append(c.edges, id)
				c.edge(a, inner)
			}
			return true
		})
	}
}

// edge follows the remote witnesses of an arc that matched node n on its own.
// The arc itself has already been recorded.
func (c *collector) edge(a graph.Arc, n shape.NodeID) {
	e := c.eval
	o := &e.prog.ops[n]
	switch o.kind {
	case shape.KindReference:
		c.push(a.Object, o.inner())
	case shape.KindAnd:
		for _, ch := range o.children {
			c.edge(a, ch)
		}
	case shape.KindOr:
		for _, ch := range o.children {
			if e.edge(a, ch) == Satisfied {
				c.edge(a, ch)
			}
		}
	case shape.KindCardinality:
		if e.edge(a, o.inner()) == Satisfied {
			c.edge(a, o.inner())
		}
	}
}
