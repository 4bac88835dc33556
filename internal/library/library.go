// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

// Package library implements the media asset operations on top of the
// asset store and the vision collaborators: ingestion, similarity and
// attribute queries, rating and episode mutations, aggregation, and
// whole-directory backup.
package library

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mediavault-dev/mediavault/internal/store"
	"github.com/mediavault-dev/mediavault/internal/vision"
)

// defaultFrameOffset is how far into a video the representative frame is
// captured.
const defaultFrameOffset = time.Second

// Library is the media asset database facade. All operations run on the
// caller's stack; the embedding provider and frame extractor are the only
// blocking collaborators.
type Library struct {
	store    store.AssetStore
	embedder vision.EmbeddingProvider
	frames   vision.FrameExtractor
	logger   *slog.Logger

	frameOffset time.Duration

	// mu serializes read-modify-write mutations (episode assignment) so
	// concurrent callers cannot silently drop each other's updates.
	mu sync.Mutex
}

// Option customises a Library.
type Option func(*Library)

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(lib *Library) { lib.logger = l }
}

// WithFrameOffset overrides the video frame capture offset.
func WithFrameOffset(d time.Duration) Option {
	return func(lib *Library) { lib.frameOffset = d }
}

// New creates a Library over the given store and collaborators. The
// embedding provider is passed in by reference so ingestion and queries
// are guaranteed to share one model and version.
func New(st store.AssetStore, embedder vision.EmbeddingProvider, frames vision.FrameExtractor, opts ...Option) *Library {
	lib := &Library{
		store:       st,
		embedder:    embedder,
		frames:      frames,
		logger:      slog.Default(),
		frameOffset: defaultFrameOffset,
	}
	for _, opt := range opts {
		opt(lib)
	}
	return lib
}

// Close closes the underlying store.
func (l *Library) Close() error {
	return l.store.Close()
}
