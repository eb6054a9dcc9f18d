// Package pschema validates a graph against a compiled shape schema and
// returns the subgraph that witnesses it.
//
// A Validator is immutable after New and safe for concurrent use; every
// Validate call owns its evaluation state and discards it on return. The
// input graph is never modified and the returned subgraph shares no memory
// with it.
//
// A schema predicate that never occurs in the graph is not an error: the
// shapes that need it are simply not satisfied.
package pschema

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/pschema/internal/ctxlog"
	"github.com/specialistvlad/pschema/internal/graph"
	"github.com/specialistvlad/pschema/internal/metrics"
	"github.com/specialistvlad/pschema/internal/pregel"
	"github.com/specialistvlad/pschema/internal/shape"
)

// Validator binds a schema to validation settings.
type Validator struct {
	schema        *shape.Schema
	workers       int
	maxSupersteps int
	metrics       *metrics.Collector
}

// Stats summarizes one validation run.
type Stats struct {
	RunID      string
	Supersteps int
	Messages   int64
	Decided    int64
	Forced     int64
	Focus      int
	Triples    int
	Duration   time.Duration
}

// New returns a Validator for schema.
func New(schema *shape.Schema, opts ...Option) *Validator {
	v := &Validator{schema: schema}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Schema returns the bound schema.
func (v *Validator) Schema() *shape.Schema { return v.schema }

// Validate evaluates the schema over g. It returns the witness subgraph,
// which may be empty, or exactly one *ValidationError.
func (v *Validator) Validate(ctx context.Context, g *graph.Graph) (*graph.Subgraph, error) {
	sg, _, err := v.ValidateWithStats(ctx, g)
	return sg, err
}

// ValidateWithStats is Validate that also reports run statistics.
func (v *Validator) ValidateWithStats(ctx context.Context, g *graph.Graph) (*graph.Subgraph, Stats, error) {
	stats := Stats{RunID: uuid.NewString()}
	rootName := v.schema.Node(v.schema.Root()).Name
	logger := ctxlog.FromContext(ctx).With("run_id", stats.RunID)
	ctx = ctxlog.WithLogger(ctx, logger)
	start := time.Now()

	sg, err := v.validate(ctx, g, &stats)
	stats.Duration = time.Since(start)
	if err != nil {
		verr := classify(rootName, err)
		v.metrics.ObserveRun(stats.Duration, 0, 0, verr)
		logger.Error("Validation failed.", "shape", rootName, "error", verr)
		return nil, stats, verr
	}

	stats.Focus = len(sg.Focus)
	stats.Triples = sg.Len()
	v.metrics.ObserveRun(stats.Duration, stats.Focus, stats.Triples, nil)
	logger.Info("Validation finished.",
		"shape", rootName,
		"focus", stats.Focus,
		"triples", stats.Triples,
		"supersteps", stats.Supersteps,
		"messages", stats.Messages,
		"forced", stats.Forced,
		"duration", stats.Duration,
	)
	return sg, stats, nil
}

func (v *Validator) validate(ctx context.Context, g *graph.Graph, stats *Stats) (*graph.Subgraph, error) {
	if g == nil || g.NumVertices() == 0 {
		return nil, ErrEmptyGraph
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Validation starting.", "vertices", g.NumVertices(), "edges", g.NumEdges(), "shape_nodes", v.schema.Len())

	engine := pregel.New(g, v.schema, pregel.Options{
		Workers:       v.workers,
		MaxSupersteps: v.maxSupersteps,
		OnSuperstep: func(s pregel.SuperstepStats) {
			v.metrics.ObserveSuperstep(s.Messages, s.Decided, s.Forced)
		},
	})
	res, err := engine.Run(ctx)
	if err != nil {
		return nil, err
	}
	stats.Supersteps = res.Supersteps
	stats.Messages = res.Messages
	stats.Decided = res.Decided
	stats.Forced = res.Forced

	sg, err := engine.Extract(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("extracting subgraph: %w", err)
	}
	return sg, nil
}

func classify(shapeName string, err error) *ValidationError {
	kind := KindInterrupted
	switch {
	case errors.Is(err, ErrEmptyGraph):
		kind = KindEmptyGraph
	case errors.Is(err, ErrNonConvergence):
		kind = KindNonConvergence
	}
	return &ValidationError{Kind: kind, Shape: shapeName, Err: err}
}
