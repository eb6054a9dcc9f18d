package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/pschema/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	edges    *graph.EdgeList
	exported map[string]*graph.Subgraph
}

func (m *memBackend) Import(_ context.Context, source string) (*graph.EdgeList, error) {
	if m.edges == nil {
		return nil, NewImportError(source, 0, errors.New("nothing stored"))
	}
	return m.edges, nil
}

func (m *memBackend) Export(_ context.Context, destination string, sg *graph.Subgraph) error {
	m.exported[destination] = sg
	return nil
}

type memModule struct{ b *memBackend }

func (m memModule) Register(r *Registry) error {
	if err := r.Register("mem", m.b); err != nil {
		return err
	}
	return r.RegisterExtension(".mem", "mem")
}

func TestSplitURI(t *testing.T) {
	testCases := []struct {
		uri, scheme, rest string
	}{
		{"sqlite:///tmp/db.sqlite", "sqlite", "/tmp/db.sqlite"},
		{"S3://bucket/key.nt", "s3", "bucket/key.nt"},
		{"data/graph.nt", "", "data/graph.nt"},
		{"://odd", "", "://odd"},
	}
	for _, tc := range testCases {
		t.Run(tc.uri, func(t *testing.T) {
			scheme, rest := SplitURI(tc.uri)
			assert.Equal(t, tc.scheme, scheme)
			assert.Equal(t, tc.rest, rest)
		})
	}
	assert.Equal(t, "bucket/key.nt", Location("s3://bucket/key.nt"))
}

func TestRegistry(t *testing.T) {
	mem := &memBackend{exported: make(map[string]*graph.Subgraph)}
	r, err := NewRegistry(memModule{mem})
	require.NoError(t, err)
	assert.Equal(t, []string{"mem"}, r.Schemes())

	t.Run("duplicate scheme", func(t *testing.T) {
		assert.Error(t, r.Register("MEM", mem))
		assert.Error(t, r.RegisterExtension(".mem", "mem"))
		_, err := NewRegistry(memModule{mem}, memModule{mem})
		assert.Error(t, err)
	})

	t.Run("resolve by scheme and extension", func(t *testing.T) {
		b, err := r.Resolve("mem://anything")
		require.NoError(t, err)
		assert.Same(t, mem, b)

		b, err = r.Resolve("dir/graph.MEM")
		require.NoError(t, err)
		assert.Same(t, mem, b)
	})

	t.Run("unknown scheme", func(t *testing.T) {
		_, err := r.Resolve("ftp://host/x")
		assert.True(t, errors.Is(err, ErrUnknownScheme))

		_, err = r.Import(context.Background(), "graph.unknown")
		assert.True(t, errors.Is(err, ErrImport))
		assert.True(t, errors.Is(err, ErrUnknownScheme))

		err = r.Export(context.Background(), "ftp://host/x", &graph.Subgraph{})
		assert.True(t, errors.Is(err, ErrExport))
	})

	t.Run("import and export", func(t *testing.T) {
		_, err := r.Import(context.Background(), "mem://g")
		var ierr *ImportError
		require.True(t, errors.As(err, &ierr))
		assert.Equal(t, "mem://g", ierr.Source)
		assert.Equal(t, "import mem://g: nothing stored", ierr.Error())

		mem.edges = graph.NewEdgeList()
		mem.edges.AddTriple(graph.NewIRI("a"), "p", graph.NewIRI("b"))
		edges, err := r.Import(context.Background(), "mem://g")
		require.NoError(t, err)
		assert.Equal(t, 1, edges.Len())

		sg := &graph.Subgraph{}
		require.NoError(t, r.Export(context.Background(), "mem://out", sg))
		assert.Same(t, sg, mem.exported["mem://out"])
	})
}

func TestErrors(t *testing.T) {
	assert.NoError(t, NewImportError("x", 1, nil))
	assert.NoError(t, NewExportError("x", nil))

	err := NewImportError("g.nt", 7, errors.New("bad term"))
	assert.Equal(t, "import g.nt: line 7: bad term", err.Error())

	err = NewExportError("out.nt", errors.New("disk full"))
	assert.Equal(t, "export out.nt: disk full", err.Error())
	assert.True(t, errors.Is(err, ErrExport))
}
