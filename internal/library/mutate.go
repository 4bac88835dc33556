// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package library

import (
	"context"

	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

const (
	minRating = 1
	maxRating = 10

	minEpisode = 1
	maxEpisode = 8
)

// RateAsset sets the quality rating for an asset. Ratings outside [1,10] are
// rejected before any store access, leaving the existing rating untouched.
func (l *Library) RateAsset(ctx context.Context, id string, rating int, notes *string) error {
	if rating < minRating || rating > maxRating {
		return mverr.New(mverr.CodeLibraryRatingInvalid,
			"rating must be between 1 and 10",
			mverr.FieldAssetID(id), mverr.Field("rating", rating))
	}
	if err := l.store.UpdateRating(ctx, id, rating, notes); err != nil {
		return err
	}
	l.logger.Info("asset rated", "asset_id", id, "rating", rating)
	return nil
}

// AssignToEpisode adds an episode to an asset's assignment list. The
// operation is idempotent: assigning an episode the asset already carries
// leaves the list unchanged. Concurrent assignments to the same asset are
// serialized so no assignment is lost.
func (l *Library) AssignToEpisode(ctx context.Context, id string, episode int) error {
	if episode < minEpisode || episode > maxEpisode {
		return mverr.New(mverr.CodeLibraryEpisodeInvalid,
			"episode must be between 1 and 8",
			mverr.FieldAssetID(id), mverr.Field("episode", episode))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	asset, err := l.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if asset.HasEpisode(episode) {
		return nil
	}
	episodes := append(append([]int(nil), asset.EpisodeAssignments...), episode)
	if err := l.store.UpdateEpisodes(ctx, id, episodes); err != nil {
		return err
	}
	l.logger.Info("asset assigned to episode", "asset_id", id, "episode", episode)
	return nil
}
