package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/stratoform/assets/internal/depgraph"
)

// defaultWorkers bounds concurrent per-asset processing within one batch
// level when no WithWorkers option is set.
const defaultWorkers = 4

// Storage orchestrates dependency-aware hashing of asset batches over a
// [Store] and owns the durable [Manifest].
//
// One Storage per storage root. Multiple Storages (in the same process or
// across processes) may share a root: batches touching disjoint logical
// names compose freely, while writes to the same logical name race with
// last-writer-wins on that key.
type Storage struct {
	store        Store
	manifest     *Manifest
	addresser    Addresser
	scanner      *Scanner
	processors   []Processor
	manifestName string
	strict       bool
	workers      int
	logger       *slog.Logger

	// commitMu serializes manifest merge+persist. It is held only across
	// the in-memory merge and the manifest Put, never across per-asset
	// hashing or store writes.
	commitMu sync.Mutex

	reads singleflight.Group
}

// New creates a Storage over the given store.
func New(store Store, opts ...Option) *Storage {
	s := &Storage{
		store:        store,
		manifest:     NewManifest(),
		addresser:    NewAddresser("", 0),
		scanner:      NewScanner(),
		manifestName: DefaultManifestName,
		workers:      defaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// log returns the logger, falling back to a discard logger if nil.
func (s *Storage) log() *slog.Logger {
	if s.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.logger
}

// Manifest exposes the index for read-only use.
func (s *Storage) Manifest() *Manifest { return s.manifest }

// HashLength returns the identifier length used in hashed names, in hex
// characters.
func (s *Storage) HashLength() int { return s.addresser.Length() }

// stagedAsset tracks one batch member through the pipeline.
type stagedAsset struct {
	name    string
	content []byte
	kind    ContentKind
	refs    []RawReference
}

// Save versions a single asset and returns its hashed name. It is the
// degenerate batch of size one: references to assets outside the batch
// resolve against the existing manifest.
func (s *Storage) Save(ctx context.Context, logical string, content []byte) (string, error) {
	norm, err := NormalizePath(logical)
	if err != nil {
		return "", err
	}
	if _, err := s.SaveWithDependencies(ctx, map[string][]byte{norm: content}); err != nil {
		return "", err
	}
	hashed, ok := s.manifest.HashedPath(norm)
	if !ok {
		return "", &NotFoundError{LogicalName: norm}
	}
	return hashed, nil
}

// SaveWithDependencies versions a batch of assets together.
//
// Assets are processed in dependency order: every in-batch asset an asset
// references is hashed and stored first, and the reference text is rewritten
// to the dependency's hashed name before the referencing asset is itself
// hashed. Assets within one dependency level are processed concurrently.
//
// The manifest is updated only after every asset has been stored; on any
// failure the manifest is left untouched and already-written blobs remain
// as unreferenced garbage. Returns the number of assets processed.
func (s *Storage) SaveWithDependencies(ctx context.Context, batch map[string][]byte) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	staged := make(map[string]*stagedAsset, len(batch))
	for logical, content := range batch {
		norm, err := NormalizePath(logical)
		if err != nil {
			return 0, err
		}
		staged[norm] = &stagedAsset{name: norm, content: content, kind: KindForPath(norm)}
	}

	graph := depgraph.New()
	for name, asset := range staged {
		graph.Add(name)
		refs, err := s.scanner.Scan(asset.name, asset.kind, asset.content)
		if err != nil {
			return 0, &ScanError{LogicalName: asset.name, Reason: err.Error()}
		}
		asset.refs = refs
		for _, ref := range refs {
			// Only in-batch targets constrain ordering; out-of-batch
			// targets resolve against the manifest or pass through.
			// A self-reference can never be rewritten (the asset's own
			// hash is not known yet) and adds no ordering constraint.
			if ref.Logical == "" || ref.Logical == name {
				continue
			}
			if _, inBatch := staged[ref.Logical]; inBatch {
				if err := graph.AddEdge(name, ref.Logical); err != nil {
					return 0, fmt.Errorf("dependency graph: %w", err)
				}
			}
		}
	}

	levels, err := graph.Levels()
	if err != nil {
		var cycle *depgraph.CycleError
		if errors.As(err, &cycle) {
			return 0, &CycleError{Members: cycle.Members}
		}
		return 0, err
	}

	var resolvedMu sync.Mutex
	resolved := make(map[string]string, len(staged)) // logical → hashed, this batch

	for _, level := range levels {
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(s.workers)
		for _, name := range level {
			asset := staged[name]
			group.Go(func() error {
				hashed, err := s.processAsset(groupCtx, asset, resolved, &resolvedMu)
				if err != nil {
					return err
				}
				resolvedMu.Lock()
				resolved[asset.name] = hashed
				resolvedMu.Unlock()
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			s.log().Debug("batch aborted", "assets", len(staged), "error", err)
			return 0, err
		}
	}

	if err := s.commit(ctx, resolved); err != nil {
		return 0, err
	}
	s.log().Info("batch committed", "assets", len(resolved))
	return len(resolved), nil
}

// processAsset rewrites, processes, hashes and stores one asset, returning
// its hashed name. Dependencies are guaranteed resolved: they sit either in
// resolved (earlier levels of this batch) or in the existing manifest.
func (s *Storage) processAsset(ctx context.Context, asset *stagedAsset, resolved map[string]string, mu *sync.Mutex) (string, error) {
	content := asset.content
	if len(asset.refs) > 0 {
		content = s.rewrite(asset, resolved, mu)
	}

	for _, proc := range s.processors {
		var err error
		content, err = proc.Process(ctx, asset.name, content)
		if err != nil {
			return "", fmt.Errorf("process %s: %w", asset.name, err)
		}
	}

	identifier := s.addresser.Hash(content)
	hashed := HashedName(asset.name, identifier)
	if err := s.store.Put(ctx, hashed, content); err != nil {
		return "", &StoreError{Key: hashed, Err: err}
	}
	s.log().Debug("stored asset", "logical", asset.name, "hashed", hashed)
	return hashed, nil
}

// rewrite produces new content with every resolved reference's span replaced
// by the dependency's hashed name. Unresolved references (external targets,
// targets in neither batch nor manifest) are left untouched — a broken
// reference never aborts an otherwise valid batch.
func (s *Storage) rewrite(asset *stagedAsset, resolved map[string]string, mu *sync.Mutex) []byte {
	var out bytes.Buffer
	out.Grow(len(asset.content))
	prev := 0
	for _, ref := range asset.refs {
		hashed, ok := s.resolveDependency(ref.Logical, asset.name, resolved, mu)
		if !ok {
			continue
		}
		out.Write(asset.content[prev:ref.Start])
		out.WriteString(rewriteTarget(ref.Target, hashed))
		prev = ref.End
	}
	out.Write(asset.content[prev:])
	return out.Bytes()
}

// resolveDependency finds the hashed name for a reference target: current
// batch first, then the existing manifest. Manifest entries are trusted
// without re-checking store presence; manifest/store drift is a documented
// operational risk, not something the write path re-verifies.
func (s *Storage) resolveDependency(logical, source string, resolved map[string]string, mu *sync.Mutex) (string, bool) {
	if logical == "" || logical == source {
		return "", false
	}
	mu.Lock()
	hashed, ok := resolved[logical]
	mu.Unlock()
	if ok {
		return hashed, true
	}
	return s.manifest.HashedPath(logical)
}

// commit merges staged results into the manifest and persists it. The merge
// is prepared on a copy and the in-memory index is swapped only after the
// persist succeeds, so a persist failure leaves both the in-memory and the
// durable manifest in their pre-batch state.
func (s *Storage) commit(ctx context.Context, staged map[string]string) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	merged := s.manifest.mergedCopy(staged)
	data, err := encodeManifest(merged)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, s.manifestName, data); err != nil {
		return &StoreError{Key: s.manifestName, Err: err}
	}
	s.manifest.replace(merged)
	return nil
}

// LoadManifest reads the persisted manifest from the store into memory.
// It is idempotent with last-load-wins semantics. A missing manifest loads
// as empty; an unparseable one fails with [ManifestCorruptError] and leaves
// the in-memory state unchanged.
func (s *Storage) LoadManifest(ctx context.Context) error {
	data, err := s.store.Get(ctx, s.manifestName)
	if errors.Is(err, ErrNotFound) {
		s.manifest.replace(make(map[string]string))
		return nil
	}
	if err != nil {
		return &StoreError{Key: s.manifestName, Err: err}
	}
	paths, err := decodeManifest(data)
	if err != nil {
		return err
	}
	s.manifest.replace(paths)
	s.log().Debug("manifest loaded", "entries", len(paths))
	return nil
}

// HashedPath returns the hashed name recorded for a logical name.
func (s *Storage) HashedPath(logical string) (string, bool) {
	return s.manifest.HashedPath(logical)
}

// Exists reports whether a logical name is known. The manifest is consulted
// first; outside strict mode a miss falls back to a literal store lookup,
// so unversioned keys (the manifest itself, files written out of band) are
// still visible.
func (s *Storage) Exists(ctx context.Context, logical string) bool {
	if s.manifest.Exists(logical) {
		return true
	}
	if s.strict {
		return false
	}
	return s.store.Exists(ctx, logical)
}

// URL returns the public URL for a logical name: the hashed name when the
// manifest knows it, the logical name as-is otherwise.
func (s *Storage) URL(logical string) string {
	if hashed, ok := s.manifest.HashedPath(logical); ok {
		return s.store.URL(hashed)
	}
	return s.store.URL(logical)
}

// Open returns the current content for a logical name. With strict mode
// enabled a name absent from the manifest fails with [NotFoundError];
// otherwise the name is retried as a literal store key. Concurrent opens of
// the same key are deduplicated.
func (s *Storage) Open(ctx context.Context, logical string) ([]byte, error) {
	key, ok := s.manifest.HashedPath(logical)
	if !ok {
		if s.strict {
			return nil, &NotFoundError{LogicalName: logical}
		}
		key = logical
	}

	content, err, _ := s.reads.Do(key, func() (any, error) {
		return s.store.Get(ctx, key)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, &NotFoundError{LogicalName: logical}
	}
	if err != nil {
		return nil, &StoreError{Key: key, Err: err}
	}
	return content.([]byte), nil
}
