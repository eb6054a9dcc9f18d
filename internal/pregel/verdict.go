package pregel

import (
	"github.com/specialistvlad/pschema/internal/graph"
	"github.com/specialistvlad/pschema/internal/shape"
)

// Verdict is the evaluation state of a (vertex, shape node) pair.
type Verdict uint8

const (
	Pending Verdict = iota
	Satisfied
	NotSatisfied
)

func (v Verdict) String() string {
	switch v {
	case Pending:
		return "pending"
	case Satisfied:
		return "satisfied"
	case NotSatisfied:
		return "not_satisfied"
	default:
		return "unknown"
	}
}

// Decided reports whether the verdict is final.
func (v Verdict) Decided() bool { return v != Pending }

// Table holds one verdict per (vertex, node) pair, row-major by vertex.
type Table struct {
	nodes int
	cells []Verdict
}

func newTable(vertices, nodes int) *Table {
	return &Table{nodes: nodes, cells: make([]Verdict, vertices*nodes)}
}

// At returns the verdict of node n at vertex v.
func (t *Table) At(v graph.VertexID, n shape.NodeID) Verdict {
	return t.cells[int(v)*t.nodes+int(n)]
}

func (t *Table) row(v graph.VertexID) []Verdict {
	base := int(v) * t.nodes
	return t.cells[base : base+t.nodes]
}
