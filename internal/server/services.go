// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package server

import (
	"context"

	"github.com/mediavault-dev/mediavault/internal/library"
	"github.com/mediavault-dev/mediavault/internal/store"
)

// MediaService is the library surface the HTTP handlers depend on.
// *library.Library satisfies it; tests substitute fakes.
type MediaService interface {
	AddImage(ctx context.Context, path, source string, opts library.IngestOptions) (string, error)
	AddVideo(ctx context.Context, path, source string, opts library.IngestOptions) (string, error)

	FindSimilar(ctx context.Context, referenceImage []byte, limit int, mediaType *store.MediaType) ([]*store.ScoredAsset, error)
	FindByTheme(ctx context.Context, theme string, limit int, minQuality *int, mediaType *store.MediaType) ([]*store.ScoredAsset, error)
	FindBySubject(ctx context.Context, subject string, mediaType *store.MediaType) ([]*store.MediaAsset, error)
	FindForEpisode(ctx context.Context, episode int, unassignedOnly bool) ([]*store.MediaAsset, error)

	GetAsset(ctx context.Context, id string) (*store.MediaAsset, error)
	Content(ctx context.Context, id string) ([]byte, string, string, error)
	ListAssets(ctx context.Context, filter store.ListFilter, opts store.ListOpts) ([]*store.MediaAsset, int, error)

	RateAsset(ctx context.Context, id string, rating int, notes *string) error
	AssignToEpisode(ctx context.Context, id string, episode int) error

	Stats(ctx context.Context) (*store.Stats, error)
	BackupTo(ctx context.Context, dest string) error
}

var _ MediaService = (*library.Library)(nil)

// RegisterServices sets the media service and registers REST routes.
func (s *Server) RegisterServices(media MediaService) {
	s.media = media
	s.registerRoutes()
}
