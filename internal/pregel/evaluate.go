package pregel

import (
	"github.com/specialistvlad/pschema/internal/graph"
	"github.com/specialistvlad/pschema/internal/shape"
)

// evaluator computes verdicts from committed state. It never writes the
// table; all methods are safe to call from many workers at once.
type evaluator struct {
	g     *graph.Graph
	prog  *program
	table *Table
}

// vertex evaluates node n at vertex v. row holds v's verdicts for the
// current superstep, so local children evaluated earlier in the same pass
// are visible. Remote verdicts are read from the committed table.
func (e *evaluator) vertex(v graph.VertexID, n shape.NodeID, row []Verdict) Verdict {
	o := &e.prog.ops[n]
	switch o.kind {
	case shape.KindAny:
		return Satisfied

	case shape.KindValue:
		return boolVerdict(o.hasValue && v == o.value)

	case shape.KindTriple:
		if !o.hasPred {
			return NotSatisfied
		}
		lo, hi := e.g.OutByPredicate(v, o.pred)
		if o.anyObject {
			return boolVerdict(lo < hi)
		}
		if !o.hasValue {
			return NotSatisfied
		}
		for id := lo; id < hi; id++ {
			if e.g.Arc(id).Object == o.value {
				return Satisfied
			}
		}
		return NotSatisfied

	case shape.KindAnd:
		pending := false
		for _, c := range o.children {
			switch row[c] {
			case NotSatisfied:
				return NotSatisfied
			case Pending:
				pending = true
			}
		}
		if pending {
			return Pending
		}
		return Satisfied

	case shape.KindOr:
		pending := false
		for _, c := range o.children {
			switch row[c] {
			case Satisfied:
				return Satisfied
			case Pending:
				pending = true
			}
		}
		if pending {
			return Pending
		}
		return NotSatisfied

	case shape.KindReference:
		if !o.hasPred {
			return NotSatisfied
		}
		inner := o.inner()
		pending := false
		lo, hi := e.g.OutByPredicate(v, o.pred)
		for id := lo; id < hi; id++ {
			switch e.table.At(e.g.Arc(id).Object, inner) {
			case Satisfied:
				return Satisfied
			case Pending:
				pending = true
			}
		}
		if pending {
			return Pending
		}
		return NotSatisfied

	case shape.KindCardinality:
		sat, pending := 0, 0
		inner := o.inner()
		verdict := Pending
		e.candidates(v, o, func(id graph.EdgeID) bool {
			switch e.edge(e.g.Arc(id), inner) {
			case Satisfied:
				sat++
			case Pending:
				pending++
			}
			if sat > o.max {
				verdict = NotSatisfied
				return false
			}
			return true
		})
		if verdict == NotSatisfied {
			return NotSatisfied
		}
		return countVerdict(sat, pending, o.min, o.max)
	}
	return NotSatisfied
}

// edge matches a single outgoing arc against node n, the per-edge reading
// used under a Cardinality.
func (e *evaluator) edge(a graph.Arc, n shape.NodeID) Verdict {
	o := &e.prog.ops[n]
	switch o.kind {
	case shape.KindAny:
		return Satisfied

	case shape.KindValue:
		return boolVerdict(o.hasValue && a.Object == o.value)

	case shape.KindTriple:
		if !o.hasPred || a.Predicate != o.pred {
			return NotSatisfied
		}
		return boolVerdict(o.anyObject || (o.hasValue && a.Object == o.value))

	case shape.KindAnd:
		pending := false
		for _, c := range o.children {
			switch e.edge(a, c) {
			case NotSatisfied:
				return NotSatisfied
			case Pending:
				pending = true
			}
		}
		if pending {
			return Pending
		}
		return Satisfied

	case shape.KindOr:
		pending := false
		for _, c := range o.children {
			switch e.edge(a, c) {
			case Satisfied:
				return Satisfied
			case Pending:
				pending = true
			}
		}
		if pending {
			return Pending
		}
		return NotSatisfied

	case shape.KindReference:
		if !o.hasPred || a.Predicate != o.pred {
			return NotSatisfied
		}
		return e.table.At(a.Object, o.inner())

	case shape.KindCardinality:
		// A single edge is at most one match, and it matches only when the
		// inner shape does. An edge the inner shape rejects is no match even
		// under a zero minimum.
		if o.min > 1 || o.max < 1 {
			return NotSatisfied
		}
		return e.edge(a, o.inner())
	}
	return NotSatisfied
}

// candidates calls fn for every outgoing edge of v that could match the
// inner shape of the Cardinality o, until fn returns false.
func (e *evaluator) candidates(v graph.VertexID, o *op, fn func(graph.EdgeID) bool) {
	if o.allPreds {
		lo, hi := e.g.OutRange(v)
		for id := lo; id < hi; id++ {
			if !fn(id) {
				return
			}
		}
		return
	}
	for _, p := range o.edgePreds {
		lo, hi := e.g.OutByPredicate(v, p)
		for id := lo; id < hi; id++ {
			if !fn(id) {
				return
			}
		}
	}
}

// countVerdict decides a cardinality from sat confirmed and pending
// undecided matches.
func countVerdict(sat, pending, min, max int) Verdict {
	switch {
	case sat > max || sat+pending < min:
		return NotSatisfied
	case sat >= min && sat+pending <= max:
		return Satisfied
	default:
		return Pending
	}
}

func boolVerdict(ok bool) Verdict {
	if ok {
		return Satisfied
	}
	return NotSatisfied
}
