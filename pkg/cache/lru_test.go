package cache

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestL1_ServesFromLRUAfterFirstOpen(t *testing.T) {
	inner, err := NewFileSystemCache(t.TempDir())
	require.NoError(t, err)
	l1, err := NewL1(inner, 10)
	require.NoError(t, err)
	ctx := context.Background()

	w, err := inner.Create(ctx, "packument:foo")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Commit(ctx))

	r, err := l1.Open(ctx, "packument:foo")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, ok := l1.hot.Get("packument:foo")
	assert.True(t, ok)
}

func TestL1_InvalidatesOnCommit(t *testing.T) {
	inner, err := NewFileSystemCache(t.TempDir())
	require.NoError(t, err)
	l1, err := NewL1(inner, 10)
	require.NoError(t, err)
	ctx := context.Background()

	l1.hot.Add("packument:foo", []byte("stale"))

	w, err := l1.Create(ctx, "packument:foo")
	require.NoError(t, err)
	_, err = w.Write([]byte("fresh"))
	require.NoError(t, err)
	require.NoError(t, w.Commit(ctx))

	_, ok := l1.hot.Get("packument:foo")
	assert.False(t, ok)

	r, err := l1.Open(ctx, "packument:foo")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}
