package assets

import (
	"path"
	"strings"
)

// HashedName derives the public name for a logical name and identifier by
// inserting the identifier before the last extension component:
//
//	css/app.css      → css/app.9f1a2b3c.css
//	file.min.css     → file.min.9f1a2b3c.css
//	assets/logo.png  → assets/logo.9f1a2b3c.png
//	README           → README.9f1a2b3c
//
// The directory is always preserved. Dotfiles with no further extension
// (".gitignore") get the identifier appended as a suffix segment.
func HashedName(logical, identifier string) string {
	dir, file := path.Split(logical)
	ext := path.Ext(file)
	stem := strings.TrimSuffix(file, ext)
	if stem == "" {
		// Dotfile: path.Ext reports the whole name as extension.
		stem, ext = ext, ""
	}
	return dir + stem + "." + identifier + ext
}

// StripHash removes the identifier segment from a hashed name, returning the
// logical name and true if the segment looks like an identifier of the given
// length. It exists for validation only; resolution always goes through the
// manifest, which is authoritative.
func StripHash(hashed string, length int) (string, bool) {
	dir, file := path.Split(hashed)
	ext := path.Ext(file)
	stem := strings.TrimSuffix(file, ext)
	if stem == "" {
		stem, ext = ext, ""
	}
	i := strings.LastIndexByte(stem, '.')
	if i < 0 {
		return hashed, false
	}
	segment := stem[i+1:]
	if len(segment) != length || !isHex(segment) {
		return hashed, false
	}
	return dir + stem[:i] + ext, true
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
