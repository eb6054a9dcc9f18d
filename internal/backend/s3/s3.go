// Package s3 keeps graphs as N-Triples objects in S3-compatible object
// storage. URIs have the form s3://bucket/path/to/key.nt.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/specialistvlad/pschema/internal/backend"
	"github.com/specialistvlad/pschema/internal/backend/ntriples"
	"github.com/specialistvlad/pschema/internal/ctxlog"
	"github.com/specialistvlad/pschema/internal/graph"
)

// Scheme is the URI scheme served by this package.
const Scheme = "s3"

const contentType = "application/n-triples"

// Client is the subset of the S3 API the backend uses.
type Client interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config selects the object store. Empty fields fall back to the AWS SDK
// defaults (environment, shared config, instance role).
type Config struct {
	Endpoint  string `env:"ENDPOINT"`
	Region    string `env:"REGION" envDefault:"us-east-1"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
}

// NewClient builds an S3 client for cfg. A custom endpoint switches to
// path-style addressing, which MinIO and most S3-compatible stores need.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Backend reads and writes N-Triples objects. The client is created on first
// use unless one was supplied.
type Backend struct {
	cfg Config

	mu     sync.Mutex
	client Client
}

// New returns a backend using client, or one built from cfg when client is
// nil.
func New(cfg Config, client Client) *Backend {
	return &Backend{cfg: cfg, client: client}
}

// Module registers the S3 backend.
type Module struct {
	Config Config
	Client Client
}

// Register implements backend.Module.
func (m *Module) Register(r *backend.Registry) error {
	return r.Register(Scheme, New(m.Config, m.Client))
}

func (b *Backend) getClient(ctx context.Context) (Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client != nil {
		return b.client, nil
	}
	c, err := NewClient(ctx, b.cfg)
	if err != nil {
		return nil, err
	}
	b.client = c
	return c, nil
}

// parseLocation splits s3://bucket/key.
func parseLocation(uri string) (bucket, key string, err error) {
	scheme, rest := backend.SplitURI(uri)
	if scheme != Scheme {
		return "", "", fmt.Errorf("not an s3 uri: %q", uri)
	}
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", errors.New("s3 uri must name a bucket and a key: s3://bucket/key")
	}
	return bucket, key, nil
}

// Import implements backend.Importer.
func (b *Backend) Import(ctx context.Context, source string) (*graph.EdgeList, error) {
	bucket, key, err := parseLocation(source)
	if err != nil {
		return nil, backend.NewImportError(source, 0, err)
	}
	client, err := b.getClient(ctx)
	if err != nil {
		return nil, backend.NewImportError(source, 0, err)
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, backend.NewImportError(source, 0, fmt.Errorf("get object: %w", err))
	}
	defer out.Body.Close()
	return ntriples.Decode(ctx, out.Body, source)
}

// Export implements backend.Exporter.
func (b *Backend) Export(ctx context.Context, destination string, sg *graph.Subgraph) error {
	bucket, key, err := parseLocation(destination)
	if err != nil {
		return backend.NewExportError(destination, err)
	}
	var buf bytes.Buffer
	if err := ntriples.Encode(&buf, sg); err != nil {
		return backend.NewExportError(destination, err)
	}
	client, err := b.getClient(ctx)
	if err != nil {
		return backend.NewExportError(destination, err)
	}

	size := int64(buf.Len())
	out, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return backend.NewExportError(destination, fmt.Errorf("put object: %w", err))
	}
	etag := ""
	if out.ETag != nil {
		etag = strings.Trim(*out.ETag, "\"")
	}
	ctxlog.FromContext(ctx).Debug("Uploaded subgraph.", "bucket", bucket, "key", key, "size", size, "etag", etag)
	return nil
}
