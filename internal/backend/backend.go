package backend

import (
	"context"

	"github.com/specialistvlad/pschema/internal/graph"
)

// Importer reads an edge list from a source URI.
type Importer interface {
	Import(ctx context.Context, source string) (*graph.EdgeList, error)
}

// Exporter writes a subgraph to a destination URI.
type Exporter interface {
	Export(ctx context.Context, destination string, sg *graph.Subgraph) error
}

// Backend is a storage format that can both import and export.
type Backend interface {
	Importer
	Exporter
}

// Module is implemented by every package that contributes backends.
type Module interface {
	Register(r *Registry) error
}
