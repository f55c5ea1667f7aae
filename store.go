package assets

import "context"

// Store is the minimal byte-oriented storage contract the pipeline writes
// through. Implementations must be safe for concurrent use.
//
// No cross-call transactional guarantee is assumed: batch atomicity is
// provided entirely by the manifest commit in [Storage], never by the store.
// Get returns an error wrapping [ErrNotFound] for absent keys. URL is pure
// composition and performs no I/O.
type Store interface {
	Put(ctx context.Context, key string, content []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) bool
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Processor transforms asset bytes before hashing (compression,
// minification). Processors run after reference rewriting, so the hashed
// and stored bytes are the processed ones.
type Processor interface {
	Process(ctx context.Context, name string, content []byte) ([]byte, error)
}
