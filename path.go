package assets

import (
	"fmt"
	"strings"
)

// NormalizePath converts a caller-provided logical name to canonical form:
//
//   - Strips leading and trailing slashes: "/css/app.css" → "css/app.css"
//   - Collapses consecutive slashes: "css//app.css" → "css/app.css"
//   - Drops "." elements: "./css/app.css" → "css/app.css"
//
// Empty names and names containing ".." elements are rejected with
// [ErrInvalidName]: logical names address content under a single storage
// root and must never traverse out of it.
func NormalizePath(p string) (string, error) {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	result := parts[:0] // reuse backing array
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("%w: %q", ErrInvalidName, p)
		default:
			result = append(result, part)
		}
	}
	if len(result) == 0 {
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	}
	return strings.Join(result, "/"), nil
}
