package cache

import (
	"bytes"
	"context"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/platinummonkey/registry/pkg/apierrors"
)

// L1 wraps a Store with an in-process LRU of whole entry bytes, avoiding a
// backend round trip for hot packuments/tarballs. It mirrors the teacher's
// storage.Config.L1CacheSize / CacheEnabled knobs.
type L1 struct {
	inner Store
	hot   *lru.Cache[string, []byte]
}

// NewL1 wraps inner with an LRU of up to size entries.
func NewL1(inner Store, size int) (*L1, error) {
	hot, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &L1{inner: inner, hot: hot}, nil
}

// Open implements Store, serving from the in-process LRU when possible.
func (l *L1) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if data, ok := l.hot.Get(key); ok {
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	rc, err := l.inner.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, apierrors.Storage("failed to read cache entry for L1 fill", err)
	}
	l.hot.Add(key, data)
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Metadata implements Store, delegating to inner (the LRU carries no
// separate sidecar).
func (l *L1) Metadata(ctx context.Context, key string) (*Metadata, error) {
	return l.inner.Metadata(ctx, key)
}

// Create implements Store. The write passes straight through to inner; the
// LRU entry for key is invalidated so the next Open re-populates it from
// the freshly committed content.
func (l *L1) Create(ctx context.Context, key string) (Writer, error) {
	w, err := l.inner.Create(ctx, key)
	if err != nil {
		return nil, err
	}
	return &l1Writer{Writer: w, l1: l, key: key}, nil
}

type l1Writer struct {
	Writer
	l1  *L1
	key string
}

func (w *l1Writer) Commit(ctx context.Context) error {
	w.l1.hot.Remove(w.key)
	return w.Writer.Commit(ctx)
}
