package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanOne(t *testing.T, logical string, kind ContentKind, content string) []RawReference {
	t.Helper()
	refs, err := NewScanner().Scan(logical, kind, []byte(content))
	require.NoError(t, err)
	return refs
}

func TestScanCSSURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		target  string
		logical string
	}{
		{"bare", "body { background: url(images/bg.jpg); }", "images/bg.jpg", "images/bg.jpg"},
		{"double quoted", `body { background: url("images/bg.jpg"); }`, "images/bg.jpg", "images/bg.jpg"},
		{"single quoted", "body { background: url('images/bg.jpg'); }", "images/bg.jpg", "images/bg.jpg"},
		{"spaces", "body { background: url( images/bg.jpg ); }", "images/bg.jpg", "images/bg.jpg"},
		{"font src", "@font-face { src: url(fonts/font.woff2); }", "fonts/font.woff2", "fonts/font.woff2"},
		{"query preserved", "a { background: url(img.png?v=2); }", "img.png?v=2", "img.png"},
		{"fragment preserved", "a { mask: url(sprite.svg#icon); }", "sprite.svg#icon", "sprite.svg"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			refs := scanOne(t, "style.css", KindCSS, tt.content)
			require.Len(t, refs, 1)
			assert.Equal(t, tt.target, refs[0].Target)
			assert.Equal(t, tt.logical, refs[0].Logical)
			assert.Equal(t, tt.target, tt.content[refs[0].Start:refs[0].End])
		})
	}
}

func TestScanCSSImport(t *testing.T) {
	t.Parallel()

	refs := scanOne(t, "main.css", KindCSS, `@import "theme.css";`)
	require.Len(t, refs, 1)
	assert.Equal(t, "theme.css", refs[0].Logical)

	refs = scanOne(t, "main.css", KindCSS, "@import url(theme.css);")
	require.Len(t, refs, 1)
	assert.Equal(t, "theme.css", refs[0].Logical)
}

func TestScanJSSourceMap(t *testing.T) {
	t.Parallel()

	refs := scanOne(t, "dist/app.js", KindJS, "console.log(1);\n//# sourceMappingURL=app.js.map\n")
	require.Len(t, refs, 1)
	assert.Equal(t, "app.js.map", refs[0].Target)
	assert.Equal(t, "dist/app.js.map", refs[0].Logical)
}

func TestScanRelativeResolution(t *testing.T) {
	t.Parallel()

	refs := scanOne(t, "css/theme.css", KindCSS, "@font-face { src: url(../fonts/a.woff2); }")
	require.Len(t, refs, 1)
	assert.Equal(t, "../fonts/a.woff2", refs[0].Target)
	assert.Equal(t, "fonts/a.woff2", refs[0].Logical)
}

func TestScanExternalTargets(t *testing.T) {
	t.Parallel()

	// External targets are reported with an empty Logical: they are never
	// rewritten and never constrain ordering.
	tests := []struct {
		name    string
		content string
	}{
		{"absolute", "a { background: url(/static/img.png); }"},
		{"scheme", "a { background: url(https://cdn.example.com/x.png); }"},
		{"protocol relative", "a { background: url(//cdn.example.com/x.png); }"},
		{"data uri", "a { background: url(data:image/png;base64,AAAA); }"},
		{"fragment only", "a { mask: url(#icon); }"},
		{"escapes root", "a { background: url(../../outside.png); }"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			refs := scanOne(t, "css/style.css", KindCSS, tt.content)
			require.Len(t, refs, 1)
			assert.Empty(t, refs[0].Logical)
		})
	}
}

func TestScanUnsupportedKind(t *testing.T) {
	t.Parallel()

	refs := scanOne(t, "img.png", KindOpaque, "url(looks/like/a/ref.css)")
	assert.Empty(t, refs)
}

func TestScanRestrictedKinds(t *testing.T) {
	t.Parallel()

	scanner := NewScanner(KindCSS)
	refs, err := scanner.Scan("app.js", KindJS, []byte("//# sourceMappingURL=app.js.map\n"))
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestScanMultipleOrdered(t *testing.T) {
	t.Parallel()

	content := `@import "reset.css";
body { background: url(images/bg.jpg); }
.icon { mask: url("sprite.svg"); }`
	refs := scanOne(t, "style.css", KindCSS, content)
	require.Len(t, refs, 3)
	assert.Equal(t, "reset.css", refs[0].Logical)
	assert.Equal(t, "images/bg.jpg", refs[1].Logical)
	assert.Equal(t, "sprite.svg", refs[2].Logical)
	assert.True(t, refs[0].Start < refs[1].Start && refs[1].Start < refs[2].Start)
}

func TestRewriteTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		hashed string
		want   string
	}{
		{"bare", "fonts/font.woff2", "fonts/font.ab12cd34.woff2", "fonts/font.ab12cd34.woff2"},
		{"no dir", "theme.css", "theme.9e88f001.css", "theme.9e88f001.css"},
		{"relative up", "../fonts/a.woff2", "fonts/a.ab12cd34.woff2", "../fonts/a.ab12cd34.woff2"},
		{"query", "img.png?v=2", "images/img.deadbeef.png", "img.deadbeef.png?v=2"},
		{"fragment", "sprite.svg#icon", "sprite.00ff00ff.svg", "sprite.00ff00ff.svg#icon"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, rewriteTarget(tt.target, tt.hashed))
		})
	}
}
