// Package web serves versioned assets over HTTP.
//
// Hashed names are immutable by construction, so they are served with a
// one-year immutable Cache-Control header; logical names resolve through
// the manifest on every request and are served with no-cache so clients
// always pick up new versions. Range and conditional requests are left to
// a fronting proxy or CDN.
package web

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/stratoform/assets"
)

const (
	cacheImmutable = "public, max-age=31536000, immutable"
	cacheNone      = "no-cache"
)

// Handler serves assets resolved through an assets.Storage.
type Handler struct {
	storage *assets.Storage
	logger  *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the request logger. If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler creates a Handler over storage. Mount it under the same prefix
// the store composes URLs with, stripped:
//
//	mux.Handle("/static/", http.StripPrefix("/static/", web.NewHandler(storage)))
func NewHandler(storage *assets.Storage, opts ...Option) *Handler {
	h := &Handler{storage: storage}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) log() *slog.Logger {
	if h.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return h.logger
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/")
	if name == "" {
		http.NotFound(w, r)
		return
	}

	// A request naming the current hashed version resolves through its
	// logical name and is served immutable. Anything else (logical names,
	// stale hashes, unversioned keys) resolves as-is and is revalidated.
	lookup, cache := name, cacheNone
	if logical, ok := assets.StripHash(name, h.storage.HashLength()); ok {
		if current, known := h.storage.HashedPath(logical); known && current == name {
			lookup, cache = logical, cacheImmutable
			name = logical
		}
	}

	content, err := h.storage.Open(r.Context(), lookup)
	if err != nil {
		if errors.Is(err, assets.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.log().Error("open asset", "name", lookup, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", cache)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(content); err != nil {
		h.log().Debug("write response", "name", name, "error", err)
	}
}
