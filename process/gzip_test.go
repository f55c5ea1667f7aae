package process

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repetitive CSS so compression always wins.
var cssFixture = []byte(strings.Repeat("body { margin: 0; padding: 0; color: #333; }\n", 40))

func TestGzipRoundTrip(t *testing.T) {
	t.Parallel()

	proc := NewGzip()
	compressed, err := proc.Process(context.Background(), "styles.css", cssFixture)
	require.NoError(t, err)
	require.Less(t, len(compressed), len(cssFixture))

	r, err := gzip.NewReader(bytes.NewReader(compressed))
	require.NoError(t, err)
	decompressed, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, cssFixture, decompressed)
}

func TestGzipSkipsDenseFormats(t *testing.T) {
	t.Parallel()

	proc := NewGzip()
	content := []byte("\x89PNG\r\n fake image bytes")
	got, err := proc.Process(context.Background(), "logo.png", content)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestGzipSkipsWhenNotSmaller(t *testing.T) {
	t.Parallel()

	proc := NewGzip()
	content := []byte("x")
	got, err := proc.Process(context.Background(), "tiny.txt", content)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestGzipCustomExtensions(t *testing.T) {
	t.Parallel()

	proc := NewGzip(GzipWithExtensions(".csv"))
	got, err := proc.Process(context.Background(), "styles.css", cssFixture)
	require.NoError(t, err)
	assert.Equal(t, cssFixture, got, "css is not in the custom allowlist")

	csv := []byte(strings.Repeat("a,b,c,d\n", 100))
	got, err = proc.Process(context.Background(), "data.csv", csv)
	require.NoError(t, err)
	assert.Less(t, len(got), len(csv))
}

func TestGzipDeterministic(t *testing.T) {
	t.Parallel()

	// Identical input must produce identical output, or hashed names would
	// drift between builds.
	proc := NewGzip()
	first, err := proc.Process(context.Background(), "styles.css", cssFixture)
	require.NoError(t, err)
	second, err := proc.Process(context.Background(), "styles.css", cssFixture)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
