package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/platinummonkey/registry/pkg/apierrors"
)

// S3Config configures the S3-backed cache, mirroring the teacher's
// storage.Config S3 knobs.
type S3Config struct {
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// S3Cache implements Store on top of an S3-compatible bucket, keyed
// directly by the cache's own "packument:"/"tarball:" key strings (not a
// hash of content — the key space is the contract here, not dedup by hash).
type S3Cache struct {
	client *s3.Client
	bucket string
}

// NewS3Cache creates an S3-backed cache. It does not verify bucket
// existence up front.
func NewS3Cache(ctx context.Context, cfg S3Config) (*S3Cache, error) {
	var awsCfg aws.Config
	var err error

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey, cfg.SecretKey, "",
			)),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.UsePathStyle {
			o.UsePathStyle = true
		}
	})

	return &S3Cache{client: client, bucket: cfg.Bucket}, nil
}

func objectKey(key string) string {
	return "cache/" + strings.ReplaceAll(key, ":", "/")
}

// Open implements Store.
func (c *S3Cache) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey(key)),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, apierrors.NotFound(fmt.Sprintf("cache entry %q not found", key))
		}
		return nil, apierrors.Storage("failed to get object from s3", err)
	}
	return out.Body, nil
}

// Metadata implements Store.
func (c *S3Cache) Metadata(ctx context.Context, key string) (*Metadata, error) {
	out, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey(key)),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, apierrors.NotFound(fmt.Sprintf("cache metadata %q not found", key))
		}
		return nil, apierrors.Storage("failed to head object in s3", err)
	}
	meta := &Metadata{LastFetchedAt: time.Now().UTC()}
	if out.LastModified != nil {
		meta.LastFetchedAt = *out.LastModified
	}
	if integrity, ok := out.Metadata["integrity"]; ok {
		meta.Integrity = integrity
	}
	return meta, nil
}

// Create implements Store. Because the S3 API has no append/commit
// primitive, the writer buffers in memory and performs the PutObject on
// Commit; concurrent writers for the same key each perform an independent
// PutObject, and S3's last-writer-wins semantics satisfy the
// at-most-one-content-per-key invariant the same way the filesystem
// backend's rename does.
func (c *S3Cache) Create(ctx context.Context, key string) (Writer, error) {
	return &s3Writer{ctx: ctx, client: c.client, bucket: c.bucket, key: objectKey(key)}, nil
}

type s3Writer struct {
	ctx    context.Context
	client *s3.Client
	bucket string
	key    string
	buf    bytes.Buffer
	done   bool
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *s3Writer) Commit(ctx context.Context) error {
	if w.done {
		return nil
	}
	w.done = true

	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.key),
		Body:   bytes.NewReader(w.buf.Bytes()),
	})
	if err != nil {
		return apierrors.Storage("failed to put object to s3", err)
	}
	return nil
}

func (w *s3Writer) Discard() error {
	w.done = true
	w.buf.Reset()
	return nil
}

func isNoSuchKey(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
