package registrystore

import (
	"bytes"
	"context"
	"io"

	"github.com/platinummonkey/registry/pkg/apierrors"
	"github.com/platinummonkey/registry/pkg/cache"
	"github.com/platinummonkey/registry/pkg/packageid"
	"github.com/platinummonkey/registry/pkg/upstream"
)

// Source is the upstream half of a read-through composer. *upstream.Client
// satisfies it directly.
type Source interface {
	StreamPackument(ctx context.Context, pkg packageid.Identifier) (io.ReadCloser, error)
	StreamTarball(ctx context.Context, pkg packageid.Identifier, version string) (io.ReadCloser, error)
}

// Composer is the read-through package storage: cache-over-upstream, with
// the cache itself pluggable (filesystem, S3, an L1-wrapped variant, or a
// RedisTier sitting in front of one of those).
type Composer struct {
	cache           cache.Store
	source          Source
	upstreamBaseURL string
	publicBaseURL   string
}

// NewComposer builds a composer. upstreamBaseURL/publicBaseURL drive the
// one-time tarball URL rewrite performed when serving a packument from
// cache; pass equal (or empty) strings to disable rewriting.
func NewComposer(store cache.Store, source Source, upstreamBaseURL, publicBaseURL string) *Composer {
	return &Composer{
		cache:           store,
		source:          source,
		upstreamBaseURL: upstreamBaseURL,
		publicBaseURL:   publicBaseURL,
	}
}

// StreamPackument serves a cache hit directly (after rewriting tarball
// URLs), or fills the cache from upstream and re-opens it on a miss, so
// that every served copy — hit or miss — goes through the same rewrite
// path.
func (c *Composer) StreamPackument(ctx context.Context, pkg packageid.Identifier) (io.ReadCloser, error) {
	key := packumentKey(pkg)

	if rc, err := c.cache.Open(ctx, key); err == nil {
		return c.rewriteAndClose(rc)
	} else if !apierrors.Is(err, apierrors.KindNotFound) {
		return nil, err
	}

	if err := c.fill(ctx, key, func() (io.ReadCloser, error) {
		return c.source.StreamPackument(ctx, pkg)
	}); err != nil {
		return nil, err
	}

	rc, err := c.cache.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	return c.rewriteAndClose(rc)
}

// StreamTarball serves a cache hit directly (tarball bytes are never
// rewritten), or tees an upstream fetch to both the caller and the cache
// concurrently on a miss.
func (c *Composer) StreamTarball(ctx context.Context, pkg packageid.Identifier, version string) (io.ReadCloser, error) {
	key := tarballKey(pkg, version)

	if rc, err := c.cache.Open(ctx, key); err == nil {
		return rc, nil
	} else if !apierrors.Is(err, apierrors.KindNotFound) {
		return nil, err
	}

	return c.teeFill(ctx, key, func() (io.ReadCloser, error) {
		return c.source.StreamTarball(ctx, pkg, version)
	})
}

func (c *Composer) rewriteAndClose(rc io.ReadCloser) (io.ReadCloser, error) {
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, apierrors.Storage("failed to read cached packument", err)
	}
	rewritten, err := rewriteTarballs(data, c.upstreamBaseURL, c.publicBaseURL)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(rewritten)), nil
}

// GetPackument returns the raw cached packument bytes for pkg, or
// NotFound if nothing is cached yet. Used by the publish path to load the
// existing document a PUT is diffed against.
func (c *Composer) GetPackument(ctx context.Context, pkg packageid.Identifier) ([]byte, error) {
	rc, err := c.cache.Open(ctx, packumentKey(pkg))
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, apierrors.Storage("failed to read cached packument", err)
	}
	return data, nil
}

// PutPackument writes data as the authoritative cached packument for pkg,
// replacing whatever was cached before. Used by publish to persist the
// merged document directly, bypassing the upstream fill path entirely.
func (c *Composer) PutPackument(ctx context.Context, pkg packageid.Identifier, data []byte) error {
	return c.put(ctx, packumentKey(pkg), data)
}

// PutTarball writes data as the authoritative cached tarball for pkg at
// version, so that a subsequent StreamTarball is served without ever
// reaching upstream.
func (c *Composer) PutTarball(ctx context.Context, pkg packageid.Identifier, version string, data []byte) error {
	return c.put(ctx, tarballKey(pkg, version), data)
}

func (c *Composer) put(ctx context.Context, key string, data []byte) error {
	w, err := c.cache.Create(ctx, key)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Discard()
		return apierrors.Storage("failed to write cache entry", err)
	}
	return w.Commit(ctx)
}

// fill fully drains open() into a cache entry and commits it. Used for
// packuments, which must be completely buffered anyway to rewrite tarball
// URLs before being served — so there is no benefit to tee-streaming a
// response that will be discarded and re-read from cache regardless.
func (c *Composer) fill(ctx context.Context, key string, open func() (io.ReadCloser, error)) error {
	src, err := open()
	if err != nil {
		return err
	}
	defer src.Close()

	w, err := c.cache.Create(ctx, key)
	if err != nil {
		return err
	}

	if _, err := io.Copy(w, src); err != nil {
		w.Discard()
		return apierrors.Upstream("upstream stream failed before completion", err)
	}
	return w.Commit(ctx)
}

// teeFill opens an upstream stream and a cache writer concurrently and fans
// each incoming chunk out to both the caller (via an io.Pipe) and the
// cache. On a clean end of stream the writer is committed; on any error
// the writer is discarded and the pipe is closed with that error, which
// surfaces to the caller's next Read as an apierrors.Error.
func (c *Composer) teeFill(ctx context.Context, key string, open func() (io.ReadCloser, error)) (io.ReadCloser, error) {
	src, err := open()
	if err != nil {
		return nil, err
	}

	w, err := c.cache.Create(ctx, key)
	if err != nil {
		src.Close()
		return nil, err
	}

	pr, pw := io.Pipe()
	go func() {
		defer src.Close()
		buf := make([]byte, 32*1024)
		for {
			n, rerr := src.Read(buf)
			if n > 0 {
				if _, werr := w.Write(buf[:n]); werr != nil {
					w.Discard()
					pw.CloseWithError(apierrors.Storage("failed to write cache entry", werr))
					return
				}
				if _, perr := pw.Write(buf[:n]); perr != nil {
					w.Discard()
					return
				}
			}
			switch rerr {
			case nil:
				continue
			case io.EOF:
				if cerr := w.Commit(ctx); cerr != nil {
					pw.CloseWithError(cerr)
					return
				}
				pw.Close()
				return
			default:
				w.Discard()
				pw.CloseWithError(apierrors.Upstream("upstream stream failed before completion", rerr))
				return
			}
		}
	}()

	return pr, nil
}

var _ Source = (*upstream.Client)(nil)
