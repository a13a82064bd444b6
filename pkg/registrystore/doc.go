// Package registrystore composes a content-addressed cache over an
// upstream registry source into a single read-through PackageStorage:
// cache hits are served directly, packument misses are filled from upstream
// and then served from the freshly committed cache entry, tarball misses
// are streamed to the caller and the cache at once, and packument tarball
// URLs are rewritten from the upstream host to the public host exactly
// once, at serve time.
package registrystore
