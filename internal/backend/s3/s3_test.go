package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/specialistvlad/pschema/internal/backend"
	"github.com/specialistvlad/pschema/internal/graph"
	"github.com/specialistvlad/pschema/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient is an in-memory bucket store.
type fakeClient struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeClient() *fakeClient {
	return &fakeClient{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (f *fakeClient) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeClient) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{ETag: aws.String(`"abc"`)}, nil
}

func TestParseLocation(t *testing.T) {
	bucket, key, err := parseLocation("s3://graphs/runs/42/out.nt")
	require.NoError(t, err)
	assert.Equal(t, "graphs", bucket)
	assert.Equal(t, "runs/42/out.nt", key)

	for _, bad := range []string{"s3://bucket", "s3://bucket/", "s3:///key", "file://x/y"} {
		_, _, err := parseLocation(bad)
		assert.Error(t, err, bad)
	}
}

func TestBackend_RoundTrip(t *testing.T) {
	client := newFakeClient()
	r, err := backend.NewRegistry(&Module{Client: client})
	require.NoError(t, err)

	ctx, logs := testutil.LogContext(t)
	sg := &graph.Subgraph{Triples: []graph.Triple{
		testutil.Triple("<a>", "p", "<b>"),
		testutil.Triple("<b>", "q", `"v"`),
	}}
	require.NoError(t, r.Export(ctx, "s3://graphs/out.nt", sg))
	assert.Equal(t, "<a> <p> <b> .\n<b> <q> \"v\" .\n", string(client.objects["graphs/out.nt"]))
	assert.Equal(t, contentType, client.types["graphs/out.nt"])
	assert.Contains(t, logs.String(), "etag=abc")

	edges, err := r.Import(ctx, "s3://graphs/out.nt")
	require.NoError(t, err)
	assert.Equal(t, 2, edges.Len())
}

func TestBackend_Errors(t *testing.T) {
	client := newFakeClient()
	b := New(Config{}, client)
	ctx := context.Background()

	_, err := b.Import(ctx, "s3://graphs/missing.nt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrImport))
	var nsk *types.NoSuchKey
	assert.True(t, errors.As(err, &nsk))

	client.objects["graphs/bad.nt"] = []byte("<a> <p> <b> .\n<a> <p>\n")
	_, err = b.Import(ctx, "s3://graphs/bad.nt")
	var ierr *backend.ImportError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, 2, ierr.Line)

	err = b.Export(ctx, "s3://nobucketkey", &graph.Subgraph{})
	assert.True(t, errors.Is(err, backend.ErrExport))
	assert.True(t, strings.Contains(err.Error(), "bucket and a key"))
}
