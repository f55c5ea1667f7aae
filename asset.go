package assets

import (
	"path"
	"strings"
)

// ContentKind identifies the textual format of an asset for reference
// scanning. Assets with an unrecognized kind are stored byte-for-byte and
// never scanned.
type ContentKind uint8

const (
	KindOpaque ContentKind = iota
	KindCSS
	KindJS
)

func (k ContentKind) String() string {
	switch k {
	case KindOpaque:
		return "opaque"
	case KindCSS:
		return "css"
	case KindJS:
		return "js"
	default:
		return "unknown"
	}
}

// KindForPath infers the content kind from a logical name's extension.
func KindForPath(name string) ContentKind {
	switch strings.ToLower(path.Ext(name)) {
	case ".css":
		return KindCSS
	case ".js", ".mjs":
		return KindJS
	default:
		return KindOpaque
	}
}

// Asset is a single batch input: stable logical name plus the bytes to
// version. The logical name never carries a content hash.
type Asset struct {
	LogicalName string
	Content     []byte
	Kind        ContentKind
}
