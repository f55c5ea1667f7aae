// Package memstore provides an in-memory asset store, useful for tests and
// single-process serving of small trees.
package memstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/stratoform/assets"
)

// Store is an in-memory assets.Store. The zero value is not usable; call
// New.
type Store struct {
	mu        sync.RWMutex
	blobs     map[string][]byte
	urlPrefix string
}

// New creates an empty Store. urlPrefix is prepended by URL.
func New(urlPrefix string) *Store {
	if urlPrefix != "" && !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	if urlPrefix == "" {
		urlPrefix = "/"
	}
	return &Store{blobs: make(map[string][]byte), urlPrefix: urlPrefix}
}

// Put stores a copy of content under key.
func (s *Store) Put(ctx context.Context, key string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), content...)
	return nil
}

// Get returns a copy of the content stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", assets.ErrNotFound, key)
	}
	return append([]byte(nil), content...), nil
}

// Exists reports whether key is present.
func (s *Store) Exists(ctx context.Context, key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[key]
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
	for key := range s.blobs {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

// URL composes the public URL for key.
func (s *Store) URL(key string) string {
	return s.urlPrefix + strings.TrimPrefix(key, "/")
}

// Len returns the number of stored blobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
