package assets

import (
	"log/slog"

	"github.com/opencontainers/go-digest"
)

// Option configures a Storage.
type Option func(*Storage)

// WithStrict controls strict manifest mode. When enabled, Open and Exists
// consult the manifest only: a logical name absent from the index fails
// with NotFound instead of falling back to a literal store lookup.
func WithStrict(strict bool) Option {
	return func(s *Storage) {
		s.strict = strict
	}
}

// WithHashLength sets the identifier length in hex characters (default: 8).
func WithHashLength(length int) Option {
	return func(s *Storage) {
		s.addresser = NewAddresser(s.addresser.algorithm, length)
	}
}

// WithAlgorithm sets the digest algorithm (default: sha256).
func WithAlgorithm(algorithm digest.Algorithm) Option {
	return func(s *Storage) {
		s.addresser = NewAddresser(algorithm, s.addresser.length)
	}
}

// WithKinds restricts reference scanning to the given content kinds.
// By default every known kind is scanned.
func WithKinds(kinds ...ContentKind) Option {
	return func(s *Storage) {
		s.scanner = NewScanner(kinds...)
	}
}

// WithWorkers bounds concurrent per-asset processing within one dependency
// level (default: 4). Values < 1 force serial processing.
func WithWorkers(n int) Option {
	return func(s *Storage) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// WithManifestName overrides the store key the manifest is persisted under
// (default: staticfiles.json).
func WithManifestName(name string) Option {
	return func(s *Storage) {
		if name != "" {
			s.manifestName = name
		}
	}
}

// WithProcessors appends content processors run on each asset after
// reference rewriting and before hashing, in order.
func WithProcessors(procs ...Processor) Option {
	return func(s *Storage) {
		s.processors = append(s.processors, procs...)
	}
}

// WithLogger sets the logger for pipeline operations. If not set, logging
// is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Storage) {
		s.logger = logger
	}
}
