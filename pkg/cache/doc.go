// Package cache implements the content-addressed key/value cache used by
// the read-through composer: keyed byte streams with concurrent-write,
// single-commit semantics and an optional metadata sidecar.
//
// Keys follow the convention "packument:<pkg>" and "tarball:<pkg>:<version>".
// Multiple writers for the same key may coexist; each Commit replaces the
// entry as a whole, so the last to Commit wins, and readers opened after a
// commit observe one full committed content. A writer dropped without Commit leaves no trace.
package cache
