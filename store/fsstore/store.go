// Package fsstore provides a filesystem-backed asset store.
//
// Keys are slash-separated paths under a single root directory. Writes are
// atomic (temp file + rename), so a reader never observes a partially
// written blob even under concurrent writers.
package fsstore

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/stratoform/assets"
)

// Store is a filesystem-backed assets.Store rooted at a single directory.
type Store struct {
	root      string
	urlPrefix string
}

// New creates a Store rooted at dir, creating it if needed. urlPrefix is
// prepended by URL (e.g. "/static/").
func New(dir, urlPrefix string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create root: %w", err)
	}
	return &Store{root: abs, urlPrefix: normalizePrefix(urlPrefix)}, nil
}

// Root returns the absolute root directory.
func (s *Store) Root() string { return s.root }

// path maps a key to an absolute filesystem path, rejecting keys that would
// escape the root.
func (s *Store) path(key string) (string, error) {
	norm, err := assets.NormalizePath(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(norm)), nil
}

// Put writes content under key atomically, creating parent directories as
// needed.
func (s *Store) Put(ctx context.Context, key string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return writeFileAtomic(target, content)
}

// Get reads the content stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := s.path(key)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(target)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", assets.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return content, nil
}

// Exists reports whether key holds a regular file.
func (s *Store) Exists(ctx context.Context, key string) bool {
	target, err := s.path(key)
	if err != nil {
		return false
	}
	info, err := os.Stat(target)
	return err == nil && info.Mode().IsRegular()
}

// List returns all keys with the given prefix, in unspecified order.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var keys []string
	err := fs.WalkDir(os.DirFS(s.root), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if strings.HasPrefix(p, prefix) {
			keys = append(keys, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}
	return keys, nil
}

// Delete removes the file under key. Deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// URL composes the public URL for key. Pure string composition, no I/O.
func (s *Store) URL(key string) string {
	return s.urlPrefix + strings.TrimPrefix(key, "/")
}

func normalizePrefix(prefix string) string {
	if prefix == "" {
		return "/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

// writeFileAtomic writes content to a temp file then renames to target,
// ensuring atomic replacement of the target file.
func writeFileAtomic(target string, content []byte) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, "."+path.Base(target)+"-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
