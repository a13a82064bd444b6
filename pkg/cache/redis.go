package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/platinummonkey/registry/pkg/apierrors"
)

// RedisTier is an optional intermediate cache tier sitting between the
// local content-addressed cache and upstream: a read-through composer may
// be configured to check Redis before falling through to a slower backend
// (filesystem/S3), the way the teacher's RedisCache wraps PostgresStorage.
type RedisTier struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTier creates a Redis-backed intermediate cache tier.
func NewRedisTier(addr, password string, db int, ttl time.Duration) (*RedisTier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, apierrors.Storage("failed to connect to redis", err)
	}

	return &RedisTier{client: client, ttl: ttl}, nil
}

// Close closes the underlying Redis connection.
func (r *RedisTier) Close() error {
	return r.client.Close()
}

// Open implements Store.
func (r *RedisTier) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apierrors.NotFound(fmt.Sprintf("cache entry %q not found", key))
		}
		return nil, apierrors.Storage("failed to read from redis", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Metadata implements Store. Redis does not track fetch timestamps
// separately, so LastFetchedAt reflects the time of the call.
func (r *RedisTier) Metadata(ctx context.Context, key string) (*Metadata, error) {
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, apierrors.Storage("failed to check redis key", err)
	}
	if exists == 0 {
		return nil, apierrors.NotFound(fmt.Sprintf("cache metadata %q not found", key))
	}
	return &Metadata{LastFetchedAt: time.Now().UTC()}, nil
}

// Create implements Store.
func (r *RedisTier) Create(ctx context.Context, key string) (Writer, error) {
	return &redisWriter{ctx: ctx, client: r.client, key: key, ttl: r.ttl}, nil
}

type redisWriter struct {
	ctx    context.Context
	client *redis.Client
	key    string
	ttl    time.Duration
	buf    bytes.Buffer
	done   bool
}

func (w *redisWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *redisWriter) Commit(ctx context.Context) error {
	if w.done {
		return nil
	}
	w.done = true
	if err := w.client.Set(ctx, w.key, w.buf.Bytes(), w.ttl).Err(); err != nil {
		return apierrors.Storage("failed to write to redis", err)
	}
	return nil
}

func (w *redisWriter) Discard() error {
	w.done = true
	w.buf.Reset()
	return nil
}
