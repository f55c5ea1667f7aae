package process

import (
	"context"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Zstd compresses text assets with zstandard before hashing. The encoder is
// created lazily and shared: zstd.Encoder is safe for concurrent use via
// EncodeAll.
type Zstd struct {
	level zstd.EncoderLevel
	exts  map[string]bool

	once    sync.Once
	encoder *zstd.Encoder
	initErr error
}

// ZstdOption configures a Zstd processor.
type ZstdOption func(*Zstd)

// ZstdWithLevel sets the encoder level (default: zstd.SpeedDefault).
func ZstdWithLevel(level zstd.EncoderLevel) ZstdOption {
	return func(z *Zstd) {
		z.level = level
	}
}

// ZstdWithExtensions replaces the default extension allowlist.
func ZstdWithExtensions(exts ...string) ZstdOption {
	return func(z *Zstd) {
		z.exts = extSet(exts)
	}
}

// NewZstd creates a Zstd processor.
func NewZstd(opts ...ZstdOption) *Zstd {
	z := &Zstd{level: zstd.SpeedDefault}
	for _, opt := range opts {
		opt(z)
	}
	return z
}

// Process implements assets.Processor.
func (z *Zstd) Process(ctx context.Context, name string, content []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !compressible(name, z.exts) {
		return content, nil
	}

	z.once.Do(func() {
		z.encoder, z.initErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(z.level))
	})
	if z.initErr != nil {
		return nil, fmt.Errorf("zstd %s: %w", name, z.initErr)
	}

	compressed := z.encoder.EncodeAll(content, make([]byte, 0, len(content)))
	if len(compressed) >= len(content) {
		return content, nil
	}
	return compressed, nil
}
