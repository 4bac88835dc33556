// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
	"github.com/mediavault-dev/mediavault/internal/store"
)

// mediaTypeOverfetch widens the KNN candidate pool when results are
// post-filtered by media type, so the caller still gets up to limit hits.
const mediaTypeOverfetch = 5

// FindSimilar returns the assets whose embeddings are nearest to the given
// reference image, ordered by ascending distance. Assets without a computed
// embedding never appear in the results. When mediaType is non-nil the
// candidate pool is widened before filtering.
func (l *Library) FindSimilar(ctx context.Context, referenceImage []byte, limit int, mediaType *store.MediaType) ([]*store.ScoredAsset, error) {
	if limit <= 0 {
		return nil, nil
	}
	query, err := l.embedder.EncodeImage(ctx, referenceImage)
	if err != nil {
		return nil, err
	}
	return l.nearest(ctx, query, limit, mediaType)
}

// FindByTheme embeds a free-text description and returns the nearest assets.
// When minQuality is set, assets rated below the threshold and unrated assets
// are excluded. When mediaType is set, results are filtered to that type.
func (l *Library) FindByTheme(ctx context.Context, theme string, limit int, minQuality *int, mediaType *store.MediaType) ([]*store.ScoredAsset, error) {
	if limit <= 0 {
		return nil, nil
	}
	query, err := l.embedder.EncodeText(ctx, theme)
	if err != nil {
		return nil, err
	}

	k := limit
	if mediaType != nil || minQuality != nil {
		k = limit * mediaTypeOverfetch
	}
	scored, err := l.store.NearestNeighbors(ctx, query, k)
	if err != nil {
		return nil, err
	}

	results := make([]*store.ScoredAsset, 0, limit)
	for _, s := range scored {
		if mediaType != nil && s.Asset.MediaType() != *mediaType {
			continue
		}
		if minQuality != nil {
			if s.Asset.QualityRating == nil || *s.Asset.QualityRating < *minQuality {
				continue
			}
		}
		results = append(results, s)
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// FindBySubject returns assets tagged with the exact subject string. Matching
// is by list membership, not substring.
func (l *Library) FindBySubject(ctx context.Context, subject string, mediaType *store.MediaType) ([]*store.MediaAsset, error) {
	return l.store.Select(ctx, func(a *store.MediaAsset) bool {
		if !a.HasSubject(subject) {
			return false
		}
		return mediaType == nil || a.MediaType() == *mediaType
	})
}

// FindForEpisode returns assets assigned to the given episode. With
// unassignedOnly it instead returns assets not assigned to any episode,
// useful for finding reusable material.
func (l *Library) FindForEpisode(ctx context.Context, episode int, unassignedOnly bool) ([]*store.MediaAsset, error) {
	return l.store.Select(ctx, func(a *store.MediaAsset) bool {
		if unassignedOnly {
			return len(a.EpisodeAssignments) == 0
		}
		return a.HasEpisode(episode)
	})
}

// GetAsset returns a single asset by id.
func (l *Library) GetAsset(ctx context.Context, id string) (*store.MediaAsset, error) {
	return l.store.Get(ctx, id)
}

// ListAssets returns a page of assets plus the total match count.
func (l *Library) ListAssets(ctx context.Context, filter store.ListFilter, opts store.ListOpts) ([]*store.MediaAsset, int, error) {
	return l.store.List(ctx, filter, opts)
}

// Content returns the primary binary payload of an asset together with its
// MIME type and original filename.
func (l *Library) Content(ctx context.Context, id string) ([]byte, string, string, error) {
	asset, err := l.store.Get(ctx, id)
	if err != nil {
		return nil, "", "", err
	}
	data := asset.Content.Bytes()
	if len(data) == 0 {
		return nil, "", "", mverr.New(mverr.CodeLibraryContentMissing,
			"asset has no stored content", mverr.FieldAssetID(id))
	}
	mime := fmt.Sprintf("%s/%s", asset.MediaType(), asset.Specs.Format)
	return data, mime, asset.Filename, nil
}

// ExportAsset writes the asset's binary content to outputPath, byte for byte
// as it was ingested.
func (l *Library) ExportAsset(ctx context.Context, id, outputPath string) error {
	data, _, _, err := l.Content(ctx, id)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return mverr.Wrap(err, mverr.CodeLibraryExportIO,
				"create export directory", mverr.FieldPath(dir))
		}
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return mverr.Wrap(err, mverr.CodeLibraryExportIO,
			"write exported asset", mverr.FieldPath(outputPath), mverr.FieldAssetID(id))
	}
	l.logger.Info("asset exported", "asset_id", id, "path", outputPath)
	return nil
}

// nearest runs a KNN query with optional media-type post-filtering.
func (l *Library) nearest(ctx context.Context, query []float32, limit int, mediaType *store.MediaType) ([]*store.ScoredAsset, error) {
	k := limit
	if mediaType != nil {
		k = limit * mediaTypeOverfetch
	}
	scored, err := l.store.NearestNeighbors(ctx, query, k)
	if err != nil {
		return nil, err
	}
	if mediaType == nil {
		return scored, nil
	}
	results := make([]*store.ScoredAsset, 0, limit)
	for _, s := range scored {
		if s.Asset.MediaType() != *mediaType {
			continue
		}
		results = append(results, s)
		if len(results) == limit {
			break
		}
	}
	return results, nil
}
