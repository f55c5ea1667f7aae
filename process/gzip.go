package process

import (
	"bytes"
	"context"
	"fmt"

	"github.com/klauspost/compress/gzip"
)

// Gzip compresses text assets with gzip before hashing. Assets whose
// extension is not in the allowlist are passed through unchanged, as is any
// asset the compression fails to shrink.
type Gzip struct {
	level int
	exts  map[string]bool
}

// GzipOption configures a Gzip processor.
type GzipOption func(*Gzip)

// GzipWithLevel sets the compression level (default: gzip.DefaultCompression).
func GzipWithLevel(level int) GzipOption {
	return func(g *Gzip) {
		g.level = level
	}
}

// GzipWithExtensions replaces the default extension allowlist.
func GzipWithExtensions(exts ...string) GzipOption {
	return func(g *Gzip) {
		g.exts = extSet(exts)
	}
}

// NewGzip creates a Gzip processor.
func NewGzip(opts ...GzipOption) *Gzip {
	g := &Gzip{level: gzip.DefaultCompression}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Process implements assets.Processor.
func (g *Gzip) Process(ctx context.Context, name string, content []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !compressible(name, g.exts) {
		return content, nil
	}

	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, g.level)
	if err != nil {
		return nil, fmt.Errorf("gzip %s: %w", name, err)
	}
	if _, err := w.Write(content); err != nil {
		return nil, fmt.Errorf("gzip %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip %s: %w", name, err)
	}
	if buf.Len() >= len(content) {
		return content, nil
	}
	return buf.Bytes(), nil
}
