package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/platinummonkey/registry/pkg/apierrors"
)

// FileSystemCache implements Store on the local filesystem. Keys are
// mapped to paths via a sha256-prefixed directory layout so that
// arbitrary key strings (containing ":" and "/") never collide with the
// directory structure, following the layout convention the teacher's
// FileSystemStorage uses for module directories.
type FileSystemCache struct {
	rootDir string
}

// NewFileSystemCache creates a filesystem-backed cache rooted at rootDir.
func NewFileSystemCache(rootDir string) (*FileSystemCache, error) {
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache root directory: %w", err)
	}
	return &FileSystemCache{rootDir: rootDir}, nil
}

func (c *FileSystemCache) pathFor(key string) string {
	sum := sha256.Sum256([]byte(key))
	hexSum := hex.EncodeToString(sum[:])
	return filepath.Join(c.rootDir, hexSum[:2], hexSum[2:])
}

func (c *FileSystemCache) metaPathFor(key string) string {
	return c.pathFor(key) + ".meta.json"
}

// Open implements Store.
func (c *FileSystemCache) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apierrors.NotFound(fmt.Sprintf("cache entry %q not found", key))
		}
		return nil, apierrors.Storage("failed to open cache entry", err)
	}
	return f, nil
}

// Metadata implements Store.
func (c *FileSystemCache) Metadata(ctx context.Context, key string) (*Metadata, error) {
	data, err := os.ReadFile(c.metaPathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apierrors.NotFound(fmt.Sprintf("cache metadata %q not found", key))
		}
		return nil, apierrors.Storage("failed to read cache metadata", err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, apierrors.Storage("failed to decode cache metadata", err)
	}
	return &meta, nil
}

// Create implements Store. The returned Writer buffers to a temp file in
// the same directory as the final path, so Commit can be a single atomic
// rename: concurrent writers for the same key each get their own temp
// file, and each rename atomically replaces the entry, so the last to
// commit wins and readers never see a partially written file.
func (c *FileSystemCache) Create(ctx context.Context, key string) (Writer, error) {
	finalPath := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(finalPath), 0755); err != nil {
		return nil, apierrors.Storage("failed to create cache directory", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(finalPath), ".tmp-*")
	if err != nil {
		return nil, apierrors.Storage("failed to create temp file", err)
	}

	return &fsWriter{
		tmp:       tmp,
		finalPath: finalPath,
		metaPath:  c.metaPathFor(key),
	}, nil
}

type fsWriter struct {
	tmp       *os.File
	finalPath string
	metaPath  string
	done      bool
}

func (w *fsWriter) Write(p []byte) (int, error) {
	return w.tmp.Write(p)
}

func (w *fsWriter) Commit(ctx context.Context) error {
	if w.done {
		return nil
	}
	w.done = true

	if err := w.tmp.Close(); err != nil {
		os.Remove(w.tmp.Name())
		return apierrors.Storage("failed to finalize cache write", err)
	}

	if err := os.Rename(w.tmp.Name(), w.finalPath); err != nil {
		os.Remove(w.tmp.Name())
		return apierrors.Storage("failed to commit cache entry", err)
	}

	meta := Metadata{LastFetchedAt: time.Now().UTC()}
	data, err := json.Marshal(meta)
	if err == nil {
		_ = os.WriteFile(w.metaPath, data, 0644)
	}

	return nil
}

func (w *fsWriter) Discard() error {
	if w.done {
		return nil
	}
	w.done = true
	w.tmp.Close()
	return os.Remove(w.tmp.Name())
}
