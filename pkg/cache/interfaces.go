package cache

import (
	"context"
	"io"
	"time"
)

// Metadata is the sidecar recorded alongside a cached entry.
type Metadata struct {
	Integrity     string
	LastFetchedAt time.Time
}

// Writer accepts bytes for a not-yet-visible cache entry. Commit makes the
// entry visible atomically; if the writer is closed/discarded without a
// commit, any partial content must not become visible to readers.
type Writer interface {
	io.Writer
	// Commit finalizes the entry, making it visible to subsequent Opens.
	Commit(ctx context.Context) error
	// Discard abandons the writer without making anything visible. Safe to
	// call after Commit (no-op).
	Discard() error
}

// Store is the keyed, content-addressed byte-stream cache.
type Store interface {
	// Open returns a reader for key's committed content, or a NotFound
	// *apierrors.Error if no committed entry exists.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Create returns a Writer for key. Concurrent writers for the same key
	// may coexist; each Commit replaces the entry as a whole, so the last
	// Commit wins.
	Create(ctx context.Context, key string) (Writer, error)
	// Metadata returns the sidecar for key, or NotFound if absent.
	Metadata(ctx context.Context, key string) (*Metadata, error)
}
