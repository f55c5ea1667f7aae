package assets

import (
	"encoding/json"
	"fmt"
	"sync"
)

// ManifestVersion is the schema version written to persisted manifests.
const ManifestVersion = 1

// DefaultManifestName is the store key the manifest is persisted under.
const DefaultManifestName = "staticfiles.json"

// manifestFile is the persisted wire form.
type manifestFile struct {
	Version int               `json:"version"`
	Paths   map[string]string `json:"paths"`
}

// Manifest is the durable logical-name → hashed-name index.
//
// Readers take a read lock and always observe either the pre- or post-commit
// state of a batch, never a partial merge: mutation happens only through
// replace, which swaps the whole map. Mutating methods are unexported; only
// the [Storage] orchestrator commits changes.
type Manifest struct {
	mu     sync.RWMutex
	loaded bool
	paths  map[string]string
}

// NewManifest returns an empty, unloaded manifest.
func NewManifest() *Manifest {
	return &Manifest{paths: make(map[string]string)}
}

// HashedPath returns the hashed name recorded for a logical name.
func (m *Manifest) HashedPath(logical string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hashed, ok := m.paths[logical]
	return hashed, ok
}

// Exists reports whether the logical name is present in the index. It
// consults the map only, never the store.
func (m *Manifest) Exists(logical string) bool {
	_, ok := m.HashedPath(logical)
	return ok
}

// Loaded reports whether the manifest has been populated by a load or a
// successful commit.
func (m *Manifest) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.paths)
}

// Paths returns a copy of the index.
func (m *Manifest) Paths() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make(map[string]string, len(m.paths))
	for logical, hashed := range m.paths {
		paths[logical] = hashed
	}
	return paths
}

// mergedCopy returns the current index with staged merged in, without
// mutating the manifest. Staged entries win on conflict.
func (m *Manifest) mergedCopy(staged map[string]string) map[string]string {
	merged := m.Paths()
	for logical, hashed := range staged {
		merged[logical] = hashed
	}
	return merged
}

// replace swaps the whole index. Last load wins.
func (m *Manifest) replace(paths map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = paths
	m.loaded = true
}

// decodeManifest parses persisted manifest bytes.
func decodeManifest(data []byte) (map[string]string, error) {
	var file manifestFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &ManifestCorruptError{Err: err}
	}
	if file.Version != ManifestVersion {
		return nil, &ManifestCorruptError{Err: fmt.Errorf("unsupported version %d", file.Version)}
	}
	if file.Paths == nil {
		file.Paths = make(map[string]string)
	}
	return file.Paths, nil
}

// encodeManifest serializes an index to the persisted wire form.
func encodeManifest(paths map[string]string) ([]byte, error) {
	data, err := json.MarshalIndent(manifestFile{Version: ManifestVersion, Paths: paths}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return data, nil
}
