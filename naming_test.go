package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashedName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		logical string
		id      string
		want    string
	}{
		{"simple", "app.js", "9f1a2b3c", "app.9f1a2b3c.js"},
		{"nested", "assets/images/logo.png", "ab12cd34", "assets/images/logo.ab12cd34.png"},
		{"multi dot", "file.min.css", "9f1a2b3c", "file.min.9f1a2b3c.css"},
		{"many dots", "file.multiple.dots.txt", "deadbeef", "file.multiple.dots.deadbeef.txt"},
		{"no extension", "README", "9f1a2b3c", "README.9f1a2b3c"},
		{"dotfile", ".gitignore", "9f1a2b3c", ".gitignore.9f1a2b3c"},
		{"nested no extension", "docs/LICENSE", "00ff00ff", "docs/LICENSE.00ff00ff"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, HashedName(tt.logical, tt.id))
		})
	}
}

func TestStripHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		hashed string
		want   string
		ok     bool
	}{
		{"simple", "app.9f1a2b3c.js", "app.js", true},
		{"nested", "assets/images/logo.ab12cd34.png", "assets/images/logo.png", true},
		{"multi dot", "file.min.9f1a2b3c.css", "file.min.css", true},
		{"no extension", "README.9f1a2b3c", "README", true},
		{"no hash segment", "app.js", "app.js", false},
		{"wrong length", "app.9f1a.js", "app.9f1a.js", false},
		{"not hex", "app.stylesheet.js", "app.stylesheet.js", false},
		{"uppercase rejected", "app.9F1A2B3C.js", "app.9F1A2B3C.js", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := StripHash(tt.hashed, 8)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripHashInvertsHashedName(t *testing.T) {
	t.Parallel()

	addresser := NewAddresser("", 0)
	for _, logical := range []string{"app.js", "css/theme.min.css", "fonts/a.woff2"} {
		id := addresser.Hash([]byte(logical))
		got, ok := StripHash(HashedName(logical, id), addresser.Length())
		require.True(t, ok, logical)
		assert.Equal(t, logical, got)
	}
}
