package pregel

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/specialistvlad/pschema/internal/ctxlog"
	"github.com/specialistvlad/pschema/internal/graph"
	"github.com/specialistvlad/pschema/internal/shape"
	"golang.org/x/sync/errgroup"
)

// Options configures an Engine.
type Options struct {
	// Workers is the number of partitions. Zero or less means GOMAXPROCS.
	Workers int
	// MaxSupersteps overrides the computed superstep bound when positive.
	MaxSupersteps int
	// OnSuperstep, if set, is called after every committed superstep from
	// the goroutine running Run.
	OnSuperstep func(SuperstepStats)
}

// SuperstepStats describes one committed superstep.
type SuperstepStats struct {
	Superstep int
	Active    int
	Messages  int
	Decided   int
	Forced    int
	Duration  time.Duration
}

// Result is the outcome of Run.
type Result struct {
	Verdicts   *Table
	Supersteps int
	Messages   int64
	Decided    int64
	Forced     int64
}

// Engine runs one schema over one graph. An Engine holds per-run state and
// must not be shared between concurrent Run calls.
type Engine struct {
	g     *graph.Graph
	prog  *program
	opts  Options
	parts []partition
	eval  *evaluator
}

// New binds s to g. It does not start any evaluation.
func New(g *graph.Graph, s *shape.Schema, opts Options) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	prog := bind(g, s)
	return &Engine{
		g:     g,
		prog:  prog,
		opts:  opts,
		parts: newPartitions(g.NumVertices(), workers, prog.numNodes()),
	}
}

// Bound returns the superstep limit for this run.
func (e *Engine) Bound() int {
	if e.opts.MaxSupersteps > 0 {
		return e.opts.MaxSupersteps
	}
	v := int64(e.g.NumVertices())
	n := int64(e.prog.numNodes())
	bound := v*n + 2*int64(len(e.prog.strata)) + 2
	if bound > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(bound)
}

// Run evaluates every reachable (vertex, node) pair to a final verdict.
// Cancellation is observed between supersteps.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	table := newTable(e.g.NumVertices(), e.prog.numNodes())
	e.eval = &evaluator{g: e.g, prog: e.prog, table: table}

	// Nodes not reachable from the root are never evaluated.
	for i := range e.prog.ops {
		if e.prog.ops[i].reachable {
			continue
		}
		for v := 0; v < e.g.NumVertices(); v++ {
			table.cells[v*e.prog.numNodes()+i] = NotSatisfied
		}
	}

	res := &Result{Verdicts: table}
	for i := range e.parts {
		e.parts[i].activateAll()
	}

	bound := e.Bound()
	logger.Debug("Evaluation starting.", "vertices", e.g.NumVertices(), "nodes", e.prog.numNodes(), "strata", len(e.prog.strata), "partitions", len(e.parts), "bound", bound)

	for step := 0; ; step++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("evaluation interrupted at superstep %d: %w", step, err)
		}
		start := time.Now()

		active := 0
		for i := range e.parts {
			active += len(e.parts[i].inbox)
		}

		var work func(p *partition)
		forcing := false
		if active == 0 {
			k, refsOnly, err := e.lowestPendingStratum(ctx)
			if err != nil {
				return nil, fmt.Errorf("evaluation interrupted at superstep %d: %w", step, err)
			}
			if k < 0 {
				res.Supersteps = step
				logger.Debug("Evaluation converged.", "supersteps", step, "decided", res.Decided, "forced", res.Forced, "messages", res.Messages)
				return res, nil
			}
			logger.Debug("Superstep quiesced with pending pairs, resolving stratum.", "superstep", step, "stratum", k)
			forcing = true
			work = func(p *partition) { e.force(p, k, refsOnly) }
		} else {
			work = e.compute
		}
		if step >= bound {
			return nil, fmt.Errorf("%w: superstep bound %d reached", ErrNonConvergence, bound)
		}

		if err := e.parallel(ctx, func(p *partition) {
			p.reset()
			work(p)
		}); err != nil {
			return nil, fmt.Errorf("evaluation interrupted at superstep %d: %w", step, err)
		}

		stats := SuperstepStats{Superstep: step, Active: active}
		for i := range e.parts {
			p := &e.parts[i]
			stats.Decided += len(p.updates)
			for _, box := range p.outbox {
				stats.Messages += len(box)
			}
		}
		if forcing {
			stats.Forced = stats.Decided
		}

		if err := e.parallel(ctx, func(p *partition) { p.commit(table, e.parts, step) }); err != nil {
			return nil, fmt.Errorf("evaluation interrupted at superstep %d: %w", step, err)
		}

		stats.Duration = time.Since(start)
		res.Decided += int64(stats.Decided)
		res.Forced += int64(stats.Forced)
		res.Messages += int64(stats.Messages)
		logger.Debug("Superstep finished.", "superstep", step, "active", stats.Active, "decided", stats.Decided, "forced", stats.Forced, "messages", stats.Messages)
		if e.opts.OnSuperstep != nil {
			e.opts.OnSuperstep(stats)
		}
	}
}

// parallel runs fn once per partition and waits for all of them. It is the
// superstep barrier. A partition not yet started when ctx is cancelled is
// skipped and the cancellation is returned.
func (e *Engine) parallel(ctx context.Context, fn func(p *partition)) error {
	var g errgroup.Group
	g.SetLimit(len(e.parts))
	for i := range e.parts {
		p := &e.parts[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(p)
			return nil
		})
	}
	return g.Wait()
}

// compute re-evaluates the pending nodes of every active vertex of p.
func (e *Engine) compute(p *partition) {
	table := e.eval.table
	for _, v := range p.inbox {
		committed := table.row(v)
		row := p.row
		copy(row, committed)
		for _, n := range e.prog.order {
			if row[n] != Pending {
				continue
			}
			row[n] = e.eval.vertex(v, n, row)
		}
		base := int(v) * len(row)
		for n, verdict := range row {
			if verdict == committed[n] {
				continue
			}
			p.updates = append(p.updates, update{cell: base + n, verdict: verdict})
			e.announce(p, v, shape.NodeID(n))
		}
	}
}

// force rules pending pairs of stratum k NotSatisfied at every vertex of p:
// only the references when refsOnly is set, otherwise every pending pair.
func (e *Engine) force(p *partition, k int, refsOnly bool) {
	table := e.eval.table
	for v := p.lo; v < p.hi; v++ {
		base := int(v) * e.prog.numNodes()
		touched := false
		for _, n := range e.prog.strata[k] {
			if refsOnly && e.prog.ops[n].kind != shape.KindReference {
				continue
			}
			if table.At(v, n) != Pending {
				continue
			}
			p.updates = append(p.updates, update{cell: base + int(n), verdict: NotSatisfied})
			e.announce(p, v, n)
			touched = true
		}
		if touched {
			// The vertex re-evaluates its own dependents next superstep.
			p.send(v)
		}
	}
}

// announce queues a message to every in-neighbor of v that reaches v along a
// predicate of a reference to n.
func (e *Engine) announce(p *partition, v graph.VertexID, n shape.NodeID) {
	notify := e.prog.ops[n].notify
	if len(notify) == 0 {
		return
	}
	for _, id := range e.g.In(v) {
		a := e.g.Arc(id)
		for _, pid := range notify {
			if a.Predicate == pid {
				p.send(a.Subject)
				break
			}
		}
	}
}

// lowestPendingStratum returns the lowest stratum holding a pending pair,
// or -1 when every pair is decided. refsOnly reports whether a pending pair
// of that stratum is a reference.
func (e *Engine) lowestPendingStratum(ctx context.Context) (k int, refsOnly bool, err error) {
	type found struct {
		stratum int
		refs    bool
	}
	results := make([]found, len(e.parts))
	err = e.parallel(ctx, func(p *partition) {
		f := found{stratum: -1}
		for v := p.lo; v < p.hi; v++ {
			row := e.eval.table.row(v)
			for _, n := range e.prog.order {
				if row[n] != Pending {
					continue
				}
				o := &e.prog.ops[n]
				switch {
				case f.stratum < 0 || o.stratum < f.stratum:
					f = found{stratum: o.stratum, refs: o.kind == shape.KindReference}
				case o.stratum == f.stratum && o.kind == shape.KindReference:
					f.refs = true
				}
			}
		}
		results[p.index] = f
	})
	if err != nil {
		return -1, false, err
	}

	k = -1
	for _, f := range results {
		switch {
		case f.stratum < 0:
		case k < 0 || f.stratum < k:
			k, refsOnly = f.stratum, f.refs
		case f.stratum == k:
			refsOnly = refsOnly || f.refs
		}
	}
	return k, refsOnly, nil
}
