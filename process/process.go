// Package process provides content processors that transform asset bytes
// before hashing: compression for text formats, a pass-through chain for
// composing transforms.
//
// Processors run after reference rewriting, so the bytes they see (and the
// bytes that get hashed and stored) already carry hashed dependency names.
package process

import (
	"path"
	"strings"
)

// compressibleExts are the extensions compressed by default. Already-dense
// formats (images, fonts, archives) are passed through untouched.
var compressibleExts = map[string]bool{
	".css":  true,
	".htm":  true,
	".html": true,
	".js":   true,
	".json": true,
	".map":  true,
	".mjs":  true,
	".svg":  true,
	".txt":  true,
	".xml":  true,
}

// compressible reports whether name's extension is in the allowlist.
func compressible(name string, exts map[string]bool) bool {
	if exts == nil {
		exts = compressibleExts
	}
	return exts[strings.ToLower(path.Ext(name))]
}

// extSet builds an extension set from a list like [".css", ".js"].
func extSet(exts []string) map[string]bool {
	if len(exts) == 0 {
		return nil
	}
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		set[strings.ToLower(ext)] = true
	}
	return set
}
