package pregel

import (
	"slices"

	"github.com/specialistvlad/pschema/internal/graph"
)

type update struct {
	cell    int
	verdict Verdict
}

// partition owns the vertices [lo, hi) and every buffer a worker writes
// during a superstep. The buffers are reused across supersteps.
type partition struct {
	index  int
	lo, hi graph.VertexID
	chunk  int

	// inbox lists the vertices active in the coming superstep.
	inbox []graph.VertexID
	// row is scratch space for one vertex's verdicts.
	row     []Verdict
	updates []update
	// outbox[q] holds messages for vertices owned by partition q.
	outbox [][]graph.VertexID
	// stamp[v-lo] is 1 + the superstep that last queued v.
	stamp []int
}

func newPartitions(vertices, workers, nodes int) []partition {
	if workers < 1 {
		workers = 1
	}
	if workers > vertices {
		workers = vertices
	}
	if workers == 0 {
		return []partition{{row: make([]Verdict, nodes), outbox: make([][]graph.VertexID, 1)}}
	}
	chunk := (vertices + workers - 1) / workers
	count := (vertices + chunk - 1) / chunk

	parts := make([]partition, count)
	for i := range parts {
		lo := i * chunk
		hi := min(lo+chunk, vertices)
		parts[i] = partition{
			index:  i,
			lo:     graph.VertexID(lo),
			hi:     graph.VertexID(hi),
			chunk:  chunk,
			row:    make([]Verdict, nodes),
			outbox: make([][]graph.VertexID, count),
			stamp:  make([]int, hi-lo),
		}
	}
	return parts
}

func (p *partition) activateAll() {
	p.inbox = p.inbox[:0]
	for v := p.lo; v < p.hi; v++ {
		p.inbox = append(p.inbox, v)
	}
}

// reset clears the buffers written by the work phase.
func (p *partition) reset() {
	p.updates = p.updates[:0]
	for i := range p.outbox {
		p.outbox[i] = p.outbox[i][:0]
	}
}

// send queues a message for vertex v.
func (p *partition) send(v graph.VertexID) {
	owner := int(v) / p.chunk
	p.outbox[owner] = append(p.outbox[owner], v)
}

// commit applies p's updates to its own rows and gathers the messages every
// partition addressed to p into the next inbox. It runs after the barrier,
// so no partition is writing any outbox.
func (p *partition) commit(table *Table, parts []partition, step int) {
	for _, u := range p.updates {
		table.cells[u.cell] = u.verdict
	}

	mark := step + 1
	p.inbox = p.inbox[:0]
	for q := range parts {
		for _, v := range parts[q].outbox[p.index] {
			i := int(v - p.lo)
			if p.stamp[i] == mark {
				continue
			}
			p.stamp[i] = mark
			p.inbox = append(p.inbox, v)
		}
	}
	slices.Sort(p.inbox)
}
