// Package assets provides content-addressable versioning for static assets.
//
// An asset's public name is derived from a cryptographic digest of its final
// bytes, so the name changes exactly when the content changes. Textual
// references between assets (CSS url(), @import, JS sourceMappingURL) are
// rewritten to point at hashed names before hashing, so a change in a
// dependency propagates to every asset that references it. The logical-name
// to hashed-name mapping is persisted as a JSON manifest that a build-time
// writer and any number of read-only serving processes can share.
//
// # Quick Start
//
// Save a batch of assets with dependency-aware hashing:
//
//	store, err := fsstore.New("./public", "/static/")
//	if err != nil {
//	    return err
//	}
//	storage := assets.New(store)
//	n, err := storage.SaveWithDependencies(ctx, map[string][]byte{
//	    "css/theme.css":    []byte("@font-face { src: url(../fonts/a.woff2); }"),
//	    "fonts/a.woff2":    fontBytes,
//	})
//
// Resolve names in a serving process:
//
//	storage := assets.New(store, assets.WithStrict(true))
//	if err := storage.LoadManifest(ctx); err != nil {
//	    return err
//	}
//	hashed, ok := storage.HashedPath("css/theme.css")
//	url := storage.URL("css/theme.css")
//
// # Storage backends
//
// The [Store] interface is a minimal byte-oriented contract. The store
// subpackages provide filesystem ([fsstore]), in-memory ([memstore]) and
// OCI-image-layout ([ocistore]) backends. Batch atomicity is provided by
// the manifest commit, not by the store: a failed batch may leave orphaned
// blobs behind, but the manifest never references them.
package assets
