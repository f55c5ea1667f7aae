package assets

import (
	"path"
	"regexp"
	"strings"
)

// RawReference is a single textual reference discovered in an asset.
//
// Start and End delimit the as-written target within the asset's content
// (excluding any surrounding quotes). Logical is the repository-root-relative
// logical name the target resolves to, or empty when the target is external
// (absolute path, scheme-qualified, protocol-relative, fragment-only) and
// must be passed through unrewritten.
type RawReference struct {
	Start   int
	End     int
	Target  string
	Logical string
}

// Reference patterns per content kind. Each pattern's first capture group is
// the target, possibly quoted.
var (
	cssURLPattern      = regexp.MustCompile(`url\(\s*('[^']*'|"[^"]*"|[^'")\s]+)\s*\)`)
	cssImportPattern   = regexp.MustCompile(`@import\s+('[^']*'|"[^"]*")`)
	jsSourceMapPattern = regexp.MustCompile(`(?m)//[#@]\s*sourceMappingURL=([^\s'"]+)\s*$`)
)

var kindPatterns = map[ContentKind][]*regexp.Regexp{
	KindCSS: {cssURLPattern, cssImportPattern},
	KindJS:  {jsSourceMapPattern},
}

// Scanner extracts intra-asset references from known text formats.
//
// Scanning is pure and CPU-bound: it performs no I/O and never suspends.
// Unsupported content kinds yield an empty result, not an error.
type Scanner struct {
	kinds map[ContentKind]bool
}

// NewScanner creates a Scanner handling the given content kinds. With no
// arguments every known kind is scanned.
func NewScanner(kinds ...ContentKind) *Scanner {
	s := &Scanner{kinds: make(map[ContentKind]bool)}
	if len(kinds) == 0 {
		for kind := range kindPatterns {
			s.kinds[kind] = true
		}
		return s
	}
	for _, kind := range kinds {
		s.kinds[kind] = true
	}
	return s
}

// Scan returns the references found in content, in document order. The
// logical name of the referencing asset anchors relative targets. Broken or
// external targets are reported with an empty Logical so callers can pass
// them through unrewritten.
func (s *Scanner) Scan(logical string, kind ContentKind, content []byte) ([]RawReference, error) {
	if !s.kinds[kind] {
		return nil, nil
	}
	var refs []RawReference
	for _, pattern := range kindPatterns[kind] {
		for _, m := range pattern.FindAllSubmatchIndex(content, -1) {
			start, end := m[2], m[3]
			target := string(content[start:end])
			if len(target) >= 2 && (target[0] == '\'' || target[0] == '"') {
				start++
				end--
				target = target[1 : len(target)-1]
			}
			if target == "" {
				continue
			}
			refs = append(refs, RawReference{
				Start:   start,
				End:     end,
				Target:  target,
				Logical: resolveTarget(logical, target),
			})
		}
	}
	return dropOverlaps(refs), nil
}

// resolveTarget maps an as-written target to a root-relative logical name,
// or "" when the target is not a local asset reference.
func resolveTarget(source, target string) string {
	base := target
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	if base == "" || base[0] == '/' {
		return ""
	}
	// Scheme-qualified targets (http:, data:, mailto:) are external.
	if i := strings.IndexByte(base, ':'); i >= 0 && !strings.Contains(base[:i], "/") {
		return ""
	}
	resolved := path.Join(path.Dir(source), base)
	if resolved == ".." || strings.HasPrefix(resolved, "../") {
		return ""
	}
	return resolved
}

// dropOverlaps sorts references by position and removes any whose span
// overlaps an earlier one, so span rewriting stays well-defined when two
// patterns match the same text.
func dropOverlaps(refs []RawReference) []RawReference {
	if len(refs) < 2 {
		return refs
	}
	for i := 1; i < len(refs); i++ {
		for j := i; j > 0 && refs[j-1].Start > refs[j].Start; j-- {
			refs[j-1], refs[j] = refs[j], refs[j-1]
		}
	}
	kept := refs[:1]
	for _, ref := range refs[1:] {
		if ref.Start >= kept[len(kept)-1].End {
			kept = append(kept, ref)
		}
	}
	return kept
}

// rewriteTarget returns the as-written target updated to point at the
// dependency's hashed name, preserving any query or fragment suffix and the
// target's own relative form.
func rewriteTarget(target, hashedLogical string) string {
	base, suffix := target, ""
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base, suffix = base[:i], base[i:]
	}
	dir := path.Dir(base)
	if dir == "." {
		return path.Base(hashedLogical) + suffix
	}
	return dir + "/" + path.Base(hashedLogical) + suffix
}
