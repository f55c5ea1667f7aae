// Package ocistore provides an asset store backed by an OCI image layout
// directory.
//
// Blobs live content-addressed in the layout's blob directory; the
// key → descriptor mapping is kept in a JSON index file next to the layout.
// The layout can be pushed to or pulled from any OCI registry with standard
// tooling, which makes it a convenient interchange format for built asset
// trees.
package ocistore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/errdef"

	"github.com/stratoform/assets"
)

// mediaType marks asset blobs in the layout.
const mediaType = "application/octet-stream"

// indexFileName is the key index kept next to the OCI layout.
const indexFileName = "keys.json"

// Store is an assets.Store over an OCI image layout.
type Store struct {
	layout    *oci.Store
	root      string
	urlPrefix string

	mu    sync.RWMutex
	index map[string]ocispec.Descriptor
}

// New opens (or initializes) the OCI layout under dir. urlPrefix is
// prepended by URL.
func New(dir, urlPrefix string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	layout, err := oci.New(filepath.Join(abs, "layout"))
	if err != nil {
		return nil, fmt.Errorf("open oci layout: %w", err)
	}
	if urlPrefix == "" {
		urlPrefix = "/"
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	s := &Store{
		layout:    layout,
		root:      abs,
		urlPrefix: urlPrefix,
		index:     make(map[string]ocispec.Descriptor),
	}
	if err := s.loadIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

// Put pushes content as a blob and records the key → descriptor mapping.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	desc := content.NewDescriptorFromBytes(mediaType, data)
	err := s.layout.Push(ctx, desc, bytes.NewReader(data))
	if err != nil && !errors.Is(err, errdef.ErrAlreadyExists) {
		return fmt.Errorf("push blob for %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.index[key] = desc
	return s.saveIndexLocked()
}

// Get fetches the blob recorded for key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	desc, ok := s.index[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", assets.ErrNotFound, key)
	}
	rc, err := s.layout.Fetch(ctx, desc)
	if err != nil {
		if errors.Is(err, errdef.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", assets.ErrNotFound, key)
		}
		return nil, fmt.Errorf("fetch blob for %s: %w", key, err)
	}
	defer rc.Close()
	data, err := content.ReadAll(rc, desc)
	if err != nil {
		return nil, fmt.Errorf("read blob for %s: %w", key, err)
	}
	return data, nil
}

// Exists reports whether key is recorded in the index.
func (s *Store) Exists(ctx context.Context, key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[key]
	return ok
}

// List returns all keys with the given prefix, in unspecified order.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for key := range s.index {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Delete removes the key from the index. The underlying blob stays in the
// layout (it may be shared by other keys); reclaiming unreferenced blobs is
// a layout GC concern, not this store's.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[key]; !ok {
		return nil
	}
	delete(s.index, key)
	return s.saveIndexLocked()
}

// URL composes the public URL for key.
func (s *Store) URL(key string) string {
	return s.urlPrefix + strings.TrimPrefix(key, "/")
}

// Descriptor returns the OCI descriptor recorded for key, for callers that
// want to push the blob onward with ORAS.
func (s *Store) Descriptor(key string) (ocispec.Descriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	desc, ok := s.index[key]
	return desc, ok
}

func (s *Store) indexPath() string {
	return filepath.Join(s.root, indexFileName)
}

func (s *Store) loadIndex() error {
	data, err := os.ReadFile(s.indexPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read key index: %w", err)
	}
	if err := json.Unmarshal(data, &s.index); err != nil {
		return fmt.Errorf("parse key index: %w", err)
	}
	return nil
}

// saveIndexLocked persists the key index atomically. Callers hold mu.
func (s *Store) saveIndexLocked() error {
	data, err := json.MarshalIndent(s.index, "", "  ")
	if err != nil {
		return fmt.Errorf("encode key index: %w", err)
	}
	tmp, err := os.CreateTemp(s.root, ".keys-*")
	if err != nil {
		return fmt.Errorf("write key index: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write key index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write key index: %w", err)
	}
	if err := os.Rename(tmpPath, s.indexPath()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write key index: %w", err)
	}
	return nil
}
