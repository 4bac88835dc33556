// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package sqlite

import (
	"context"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"

	"github.com/mediavault-dev/mediavault/internal/store"
	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

// NearestNeighbors performs a k-nearest-neighbor search over asset_vectors
// and joins each hit back to its asset row. Results come back in ascending
// distance order; assets without a computed embedding have no vector row
// and therefore never match.
func (s *AssetStore) NearestNeighbors(ctx context.Context, query []float32, k int) ([]*store.ScoredAsset, error) {
	if len(query) != s.dimensions {
		return nil, mverr.Errorf(mverr.CodeStoreAppendInvalid,
			"query has %d dimensions, store expects %d", len(query), s.dimensions)
	}
	if k <= 0 {
		return nil, nil
	}

	blob, err := sqlite_vec.SerializeFloat32(query)
	if err != nil {
		return nil, mverr.Errorf(mverr.CodeStoreDatabaseFailure, "serializing query vector: %w", err)
	}

	// vec0 KNN queries require the MATCH + k constraints on the virtual
	// table itself; the join pulls the full asset row for each hit.
	const q = `SELECT v.distance, ` + prefixedAssetColumns + `
FROM asset_vectors v
JOIN assets a ON a.id = v.id
WHERE v.embedding MATCH ? AND k = ?
ORDER BY v.distance`

	rows, err := s.db.QueryContext(ctx, q, blob, k)
	if err != nil {
		return nil, mverr.Errorf(mverr.CodeStoreDatabaseFailure, "searching vectors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*store.ScoredAsset
	for rows.Next() {
		scored, err := scanScoredAsset(rows)
		if err != nil {
			return nil, mverr.Errorf(mverr.CodeStoreDatabaseFailure, "scanning search result: %w", err)
		}
		results = append(results, scored)
	}
	if err := rows.Err(); err != nil {
		return nil, mverr.Errorf(mverr.CodeStoreDatabaseFailure, "iterating search results: %w", err)
	}

	return results, nil
}

// prefixedAssetColumns qualifies assetColumns with the assets alias for joins.
const prefixedAssetColumns = `a.id, a.filename, a.media_type, a.image, a.video, a.thumbnail, a.embedding_state,
a.source, a.generation_prompt, a.generation_model, a.generation_time_seconds, a.generation_cost_usd,
a.width, a.height, a.duration_seconds, a.file_size_bytes, a.format, a.content_type,
a.subjects, a.style_tags, a.quality_rating, a.quality_notes, a.episode_assignments,
a.use_count, a.created_at, a.last_used_at`

// scoredScanner adapts a row scan that leads with the distance column.
type scoredScanner struct {
	inner    scanner
	distance *float64
}

func (s scoredScanner) Scan(dest ...any) error {
	return s.inner.Scan(append([]any{s.distance}, dest...)...)
}

func scanScoredAsset(row scanner) (*store.ScoredAsset, error) {
	var distance float64
	asset, err := scanAsset(scoredScanner{inner: row, distance: &distance})
	if err != nil {
		return nil, err
	}
	return &store.ScoredAsset{Asset: asset, Distance: distance}, nil
}
