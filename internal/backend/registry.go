package backend

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/specialistvlad/pschema/internal/ctxlog"
	"github.com/specialistvlad/pschema/internal/graph"
)

// Registry maps URI schemes to backends. Bare paths are resolved by file
// extension, so "data.nt" and "file://data.nt" reach the same backend.
type Registry struct {
	mu         sync.RWMutex
	schemes    map[string]Backend
	extensions map[string]string
}

// NewRegistry creates an empty registry and registers the given modules.
func NewRegistry(modules ...Module) (*Registry, error) {
	r := &Registry{
		schemes:    make(map[string]Backend),
		extensions: make(map[string]string),
	}
	for _, m := range modules {
		if err := m.Register(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register binds scheme to b. A scheme may be registered once.
func (r *Registry) Register(scheme string, b Backend) error {
	scheme = strings.ToLower(scheme)
	if scheme == "" {
		return errors.New("backend scheme must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.schemes[scheme]; dup {
		return fmt.Errorf("backend for scheme %q is already registered", scheme)
	}
	r.schemes[scheme] = b
	return nil
}

// RegisterExtension routes bare paths ending in ext (".nt") to scheme.
func (r *Registry) RegisterExtension(ext, scheme string) error {
	ext = strings.ToLower(ext)
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, dup := r.extensions[ext]; dup {
		return fmt.Errorf("extension %q is already routed to %q", ext, prev)
	}
	r.extensions[ext] = strings.ToLower(scheme)
	return nil
}

// Schemes lists the registered schemes in lexical order.
func (r *Registry) Schemes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.schemes))
	for s := range r.schemes {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Resolve finds the backend serving uri.
func (r *Registry) Resolve(uri string) (Backend, error) {
	scheme, _ := SplitURI(uri)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if scheme == "" {
		ext := strings.ToLower(filepath.Ext(uri))
		mapped, ok := r.extensions[ext]
		if !ok {
			return nil, fmt.Errorf("%w: %q has no scheme and extension %q is not known", ErrUnknownScheme, uri, ext)
		}
		scheme = mapped
	}
	b, ok := r.schemes[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
	return b, nil
}

// Import reads the edge list at source with the backend its URI selects.
func (r *Registry) Import(ctx context.Context, source string) (*graph.EdgeList, error) {
	b, err := r.Resolve(source)
	if err != nil {
		return nil, NewImportError(source, 0, err)
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Import started.", "source", source)
	edges, err := b.Import(ctx, source)
	if err != nil {
		return nil, err
	}
	logger.Debug("Import finished.", "source", source, "vertices", len(edges.Vertices), "edges", edges.Len())
	return edges, nil
}

// Export writes sg to destination with the backend its URI selects.
func (r *Registry) Export(ctx context.Context, destination string, sg *graph.Subgraph) error {
	b, err := r.Resolve(destination)
	if err != nil {
		return NewExportError(destination, err)
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Export started.", "destination", destination, "triples", sg.Len())
	if err := b.Export(ctx, destination, sg); err != nil {
		return err
	}
	logger.Debug("Export finished.", "destination", destination)
	return nil
}

// SplitURI splits "scheme://rest" into its lower-cased scheme and rest. A
// string without "://" has an empty scheme and is returned whole as rest.
func SplitURI(uri string) (scheme, rest string) {
	i := strings.Index(uri, "://")
	if i <= 0 {
		return "", uri
	}
	return strings.ToLower(uri[:i]), uri[i+3:]
}

// Location strips a leading "scheme://" from uri, leaving the path or
// address the backend works with.
func Location(uri string) string {
	_, rest := SplitURI(uri)
	return rest
}
