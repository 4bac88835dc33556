// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

// Package store defines the persistence contract for the media asset
// collection: typed records, append-once asset rows, predicate scans,
// nearest-neighbor search over the embedding column, and the narrow
// mutation surface (rating and episode assignments).
package store

import "context"

// AssetStore is the table-store contract consumed by the library layer.
//
// Append is atomic per call. NearestNeighbors returns results in ascending
// distance order and only considers assets with a computed embedding.
// Concurrency: the store performs no locking of its own beyond what the
// underlying engine provides; callers that read-modify-write a single
// asset must serialize themselves.
type AssetStore interface {
	// Append persists a new asset. The asset's ID must be unique.
	Append(ctx context.Context, asset *MediaAsset) error

	// Get returns the asset with the given ID, or a not-found error.
	Get(ctx context.Context, id string) (*MediaAsset, error)

	// Select performs a full scan and returns every asset matching the
	// predicate. A nil predicate matches all assets.
	Select(ctx context.Context, pred Predicate) ([]*MediaAsset, error)

	// List returns a filtered, paginated page of assets plus the total
	// count of assets matching the filter.
	List(ctx context.Context, filter ListFilter, opts ListOpts) ([]*MediaAsset, int, error)

	// NearestNeighbors returns up to k assets ordered by ascending vector
	// distance from the query embedding.
	NearestNeighbors(ctx context.Context, query []float32, k int) ([]*ScoredAsset, error)

	// UpdateRating sets the quality rating and notes of one asset.
	// Returns a not-found error when the ID resolves to no record.
	UpdateRating(ctx context.Context, id string, rating int, notes *string) error

	// UpdateEpisodes replaces the episode assignment set of one asset.
	// Returns a not-found error when the ID resolves to no record.
	UpdateEpisodes(ctx context.Context, id string, episodes []int) error

	// Dir returns the canonical on-disk directory of the store.
	Dir() string

	Close() error
}
