package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pschema/internal/ctxlog"
	"github.com/specialistvlad/pschema/internal/graph"
	"github.com/specialistvlad/pschema/internal/pschema"
	"github.com/specialistvlad/pschema/internal/schemafile"
)

// Run loads the schema, imports the input graph, validates it and writes the
// configured outputs. It returns the run report.
func (app *App) Run(ctx context.Context) (report *Report, err error) {
	ctx = ctxlog.WithLogger(ctx, app.logger)
	app.logger.Debug("App.Run method started.")

	if _, err := app.startHealthcheckServer(); err != nil {
		return nil, err
	}
	defer func() {
		if cerr := app.closeHealthcheckServer(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	schema, err := schemafile.Load(ctx, app.config.RootShape, app.config.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	rootName := schema.Node(schema.Root()).Name
	app.logger.Info("Schema loaded.", "root", rootName, "nodes", schema.Len(), "strata", schema.NumStrata())

	edges, err := app.backends.Import(ctx, app.config.InputURI)
	if err != nil {
		return nil, err
	}
	g, err := graph.FromEdges(edges)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph from %s: %w", app.config.InputURI, err)
	}
	app.logger.Info("Graph loaded.", "vertices", g.NumVertices(), "edges", g.NumEdges())

	validator := pschema.New(schema,
		pschema.WithWorkers(app.config.Workers),
		pschema.WithMaxSupersteps(app.config.MaxSupersteps),
		pschema.WithMetrics(app.metrics),
	)
	sg, stats, err := validator.ValidateWithStats(ctx, g)
	if err != nil {
		return nil, err
	}

	if app.config.OutputURI != "" {
		if err := app.backends.Export(ctx, app.config.OutputURI, sg); err != nil {
			return nil, err
		}
		app.logger.Info("Subgraph exported.", "destination", app.config.OutputURI, "triples", sg.Len())
	}

	report = &Report{
		RunID:         stats.RunID,
		Root:          rootName,
		Input:         app.config.InputURI,
		Output:        app.config.OutputURI,
		Vertices:      g.NumVertices(),
		Edges:         g.NumEdges(),
		Focus:         stats.Focus,
		SubgraphEdges: stats.Triples,
		Supersteps:    stats.Supersteps,
		Messages:      stats.Messages,
		Forced:        stats.Forced,
		Duration:      stats.Duration,
		Labels:        sg.Labels,
	}
	if app.config.ReportPath != "" {
		if err := app.writeReport(app.config.ReportPath, report); err != nil {
			return nil, err
		}
	}

	app.logger.Debug("App.Run method finished.")
	return report, nil
}
