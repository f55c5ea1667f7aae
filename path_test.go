package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "css/app.css", "css/app.css"},
		{"leading slash", "/css/app.css", "css/app.css"},
		{"trailing slash", "css/app.css/", "css/app.css"},
		{"double slash", "css//app.css", "css/app.css"},
		{"dot element", "./css/app.css", "css/app.css"},
		{"inner dot", "css/./app.css", "css/app.css"},
		{"single file", "app.js", "app.js"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizePath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePathInvalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "/", ".", "..", "../etc/passwd", "css/../../x"} {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			_, err := NormalizePath(input)
			assert.ErrorIs(t, err, ErrInvalidName)
		})
	}
}
