package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/pschema/internal/backend"
	"github.com/specialistvlad/pschema/internal/graph"
	"github.com/specialistvlad/pschema/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSubgraph() *graph.Subgraph {
	return &graph.Subgraph{
		Triples: []graph.Triple{
			testutil.Triple("<alice>", "knows", "<bob>"),
			testutil.Triple("<alice>", "name", `"Alice"@en`),
			testutil.Triple("<bob>", "knows", "<alice>"),
		},
		Focus: []graph.Term{testutil.Term("<alice>"), testutil.Term("<bob>")},
		Labels: map[string][]string{
			"<alice>": {"knows", "person"},
			"<bob>":   {"person"},
			"<dave>":  {"person"},
		},
	}
}

func TestBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	r, err := backend.NewRegistry(Module{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "graph.db")
	uri := "sqlite://" + path
	sg := sampleSubgraph()
	require.NoError(t, r.Export(ctx, uri, sg))

	edges, err := r.Import(ctx, uri)
	require.NoError(t, err)
	require.Equal(t, 3, edges.Len())
	got := make([]graph.Triple, 0, edges.Len())
	for _, e := range edges.Edges {
		got = append(got, graph.Triple{
			Subject:   edges.Vertices[e.Subject],
			Predicate: e.Predicate,
			Object:    edges.Vertices[e.Object],
		})
	}
	assert.Equal(t, sg.Triples, got)
	// dave only appears in the labels table.
	assert.Len(t, edges.Vertices, 4)

	labels, err := Labels(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, sg.Labels, labels)

	// A second export replaces the first.
	smaller := &graph.Subgraph{Triples: sg.Triples[:1]}
	require.NoError(t, r.Export(ctx, uri, smaller))
	edges, err = r.Import(ctx, uri)
	require.NoError(t, err)
	assert.Equal(t, 1, edges.Len())
	labels, err = Labels(ctx, path)
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestBackend_ImportErrors(t *testing.T) {
	ctx := context.Background()
	b := &Backend{}

	t.Run("missing file", func(t *testing.T) {
		_, err := b.Import(ctx, "sqlite://"+filepath.Join(t.TempDir(), "missing.db"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, backend.ErrImport))
	})

	t.Run("bad term", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.db")
		db, err := sql.Open("sqlite", path)
		require.NoError(t, err)
		defer db.Close()
		_, err = db.Exec(schemaDDL)
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO vertices (id, term) VALUES (1, '<unterminated')`)
		require.NoError(t, err)

		_, err = b.Import(ctx, "sqlite://"+path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "vertex 1")
	})

	t.Run("dangling edge", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dangling.db")
		db, err := sql.Open("sqlite", path)
		require.NoError(t, err)
		defer db.Close()
		_, err = db.Exec(schemaDDL)
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO vertices (id, term) VALUES (1, '<a>')`)
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO edges (src_id, property, dst_id) VALUES (1, 'p', 9)`)
		require.NoError(t, err)

		_, err = b.Import(ctx, "sqlite://"+path)
		require.Error(t, err)
		var ierr *backend.ImportError
		require.True(t, errors.As(err, &ierr))
		assert.Contains(t, ierr.Err.Error(), "unknown destination vertex")
	})
}
