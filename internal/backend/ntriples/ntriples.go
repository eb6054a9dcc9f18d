package ntriples

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/specialistvlad/pschema/internal/backend"
	"github.com/specialistvlad/pschema/internal/graph"
)

// Scheme is the URI scheme served by this package. Bare paths ending in
// Extension are routed here too.
const (
	Scheme    = "file"
	Extension = ".nt"
)

// Backend stores graphs as N-Triples files. The location "-" reads from
// Stdin and writes to Stdout.
type Backend struct {
	Stdin  io.Reader
	Stdout io.Writer
}

// Module registers the N-Triples backend.
type Module struct {
	Stdin  io.Reader
	Stdout io.Writer
}

// Register implements backend.Module.
func (m *Module) Register(r *backend.Registry) error {
	b := &Backend{Stdin: m.Stdin, Stdout: m.Stdout}
	if b.Stdin == nil {
		b.Stdin = os.Stdin
	}
	if b.Stdout == nil {
		b.Stdout = os.Stdout
	}
	if err := r.Register(Scheme, b); err != nil {
		return err
	}
	return r.RegisterExtension(Extension, Scheme)
}

// Import implements backend.Importer.
func (b *Backend) Import(ctx context.Context, source string) (*graph.EdgeList, error) {
	path := backend.Location(source)
	if path == "-" {
		return Decode(ctx, b.Stdin, source)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, backend.NewImportError(source, 0, err)
	}
	defer f.Close()
	return Decode(ctx, f, source)
}

// Export implements backend.Exporter. Files are written to a temporary
// sibling and renamed into place, so readers never see a partial file.
func (b *Backend) Export(ctx context.Context, destination string, sg *graph.Subgraph) error {
	if err := ctx.Err(); err != nil {
		return backend.NewExportError(destination, err)
	}
	path := backend.Location(destination)
	if path == "-" {
		return backend.NewExportError(destination, Encode(b.Stdout, sg))
	}
	return backend.NewExportError(destination, writeFile(path, sg))
}

func writeFile(path string, sg *graph.Subgraph) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, sg); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write triples: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
