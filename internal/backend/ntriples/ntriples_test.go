package ntriples

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/pschema/internal/backend"
	"github.com/specialistvlad/pschema/internal/graph"
	"github.com/specialistvlad/pschema/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# proteins
<http://example.org/P1> <http://example.org/type> <http://example.org/Protein> .
<http://example.org/P1> <http://example.org/label> "kinase"@en .

_:b0 <http://example.org/weight> "42"^^<http://www.w3.org/2001/XMLSchema#integer> . # trailing
`

func TestDecode(t *testing.T) {
	edges, err := Decode(context.Background(), strings.NewReader(sample), "sample.nt")
	require.NoError(t, err)
	require.Equal(t, 3, edges.Len())

	assert.Equal(t, "http://example.org/type", edges.Edges[0].Predicate)
	assert.Equal(t, graph.NewIRI("http://example.org/P1"), edges.Vertices[edges.Edges[0].Subject])
	assert.Equal(t, graph.NewLangLiteral("kinase", "en"), edges.Vertices[edges.Edges[1].Object])
	assert.Equal(t, graph.NewBlank("b0"), edges.Vertices[edges.Edges[2].Subject])
	assert.Equal(t,
		graph.NewTypedLiteral("42", "http://www.w3.org/2001/XMLSchema#integer"),
		edges.Vertices[edges.Edges[2].Object])

	// P1 is interned once.
	assert.Len(t, edges.Vertices, 5)
}

func TestDecode_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		line int
	}{
		{name: "missing dot", src: "<s> <p> <o>\n", line: 1},
		{name: "literal subject", src: "\n\"s\" <p> <o> .\n", line: 2},
		{name: "literal predicate", src: "<s> \"p\" <o> .\n", line: 1},
		{name: "unterminated iri", src: "<s> <p> <o .\n", line: 1},
		{name: "missing object", src: "<s> <p>\n", line: 1},
		{name: "trailing garbage", src: "<s> <p> <o> . <x>\n", line: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(context.Background(), strings.NewReader(tc.src), "bad.nt")
			require.Error(t, err)
			assert.True(t, errors.Is(err, backend.ErrImport))

			var ierr *backend.ImportError
			require.True(t, errors.As(err, &ierr))
			assert.Equal(t, "bad.nt", ierr.Source)
			assert.Equal(t, tc.line, ierr.Line)
		})
	}
}

func TestEncode(t *testing.T) {
	sg := &graph.Subgraph{Triples: []graph.Triple{
		testutil.Triple("<a>", "p", `"x\ny"`),
		testutil.Triple("_:b", "http://example.org/q", "<c>"),
	}}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sg))
	assert.Equal(t, "<a> <p> \"x\\ny\" .\n_:b <http://example.org/q> <c> .\n", buf.String())

	buf.Reset()
	require.NoError(t, Encode(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestBackend_RoundTrip(t *testing.T) {
	r, err := backend.NewRegistry(&Module{})
	require.NoError(t, err)

	ctx := context.Background()
	dir := t.TempDir()
	in := filepath.Join(dir, "in.nt")
	require.NoError(t, os.WriteFile(in, []byte(sample), 0o644))

	edges, err := r.Import(ctx, in)
	require.NoError(t, err)
	g, err := graph.FromEdges(edges)
	require.NoError(t, err)

	ids := make([]graph.EdgeID, g.NumEdges())
	for i := range ids {
		ids[i] = graph.EdgeID(i)
	}
	sg := graph.NewSubgraph(g, ids, nil, nil)

	out := filepath.Join(dir, "nested", "out.nt")
	require.NoError(t, r.Export(ctx, "file://"+out, sg))

	back, err := r.Import(ctx, "file://"+out)
	require.NoError(t, err)
	g2, err := graph.FromEdges(back)
	require.NoError(t, err)
	assert.ElementsMatch(t, sg.Triples, graph.NewSubgraph(g2, ids, nil, nil).Triples)

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestBackend_Stdio(t *testing.T) {
	var out bytes.Buffer
	r, err := backend.NewRegistry(&Module{Stdin: strings.NewReader(sample), Stdout: &out})
	require.NoError(t, err)

	edges, err := r.Import(context.Background(), "file://-")
	require.NoError(t, err)
	assert.Equal(t, 3, edges.Len())

	sg := &graph.Subgraph{Triples: []graph.Triple{testutil.Triple("<a>", "p", "<b>")}}
	require.NoError(t, r.Export(context.Background(), "file://-", sg))
	assert.Equal(t, "<a> <p> <b> .\n", out.String())
}

func TestBackend_MissingFile(t *testing.T) {
	b := &Backend{}
	_, err := b.Import(context.Background(), filepath.Join(t.TempDir(), "missing.nt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrImport))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
