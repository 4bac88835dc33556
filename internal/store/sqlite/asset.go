// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"

	"github.com/mediavault-dev/mediavault/internal/store"
	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

// assetColumns is the scan order shared by every asset query.
const assetColumns = `id, filename, media_type, image, video, thumbnail, embedding_state,
source, generation_prompt, generation_model, generation_time_seconds, generation_cost_usd,
width, height, duration_seconds, file_size_bytes, format, content_type,
subjects, style_tags, quality_rating, quality_notes, episode_assignments,
use_count, created_at, last_used_at`

// Append persists a new asset row and, when the embedding was computed,
// its vector row. Both writes commit in one transaction.
func (s *AssetStore) Append(ctx context.Context, asset *store.MediaAsset) error {
	if asset.ID == "" {
		return mverr.New(mverr.CodeStoreAppendInvalid, "asset ID must not be empty")
	}

	if vec, ok := asset.Embedding.Vector(); ok && len(vec) != s.dimensions {
		return mverr.Errorf(mverr.CodeStoreAppendInvalid,
			"embedding has %d dimensions, store expects %d", len(vec), s.dimensions)
	}

	subjects, err := marshalStrings(asset.Classification.Subjects)
	if err != nil {
		return mverr.Errorf(mverr.CodeStoreDatabaseFailure, "marshalling subjects: %w", err)
	}
	styleTags, err := marshalStrings(asset.Classification.StyleTags)
	if err != nil {
		return mverr.Errorf(mverr.CodeStoreDatabaseFailure, "marshalling style tags: %w", err)
	}
	episodes, err := marshalInts(asset.EpisodeAssignments)
	if err != nil {
		return mverr.Errorf(mverr.CodeStoreDatabaseFailure, "marshalling episode assignments: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mverr.Errorf(mverr.CodeStoreDatabaseFailure, "beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	image, _ := asset.Content.Image()
	video, _ := asset.Content.Video()
	thumbnail, _ := asset.Content.Thumbnail()

	embeddingState := store.EmbeddingUnavailable
	if asset.Embedding.Computed() {
		embeddingState = store.EmbeddingComputed
	}

	const q = `INSERT INTO assets (` + assetColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, q,
		asset.ID,
		asset.Filename,
		string(asset.Content.MediaType()),
		nullBytes(image),
		nullBytes(video),
		nullBytes(thumbnail),
		string(embeddingState),
		asset.Provenance.Source,
		asset.Provenance.GenerationPrompt,
		asset.Provenance.GenerationModel,
		asset.Provenance.GenerationTimeSeconds,
		asset.Provenance.GenerationCostUSD,
		asset.Specs.Width,
		asset.Specs.Height,
		asset.Specs.DurationSeconds,
		asset.Specs.FileSizeBytes,
		asset.Specs.Format,
		asset.Classification.ContentType,
		subjects,
		styleTags,
		asset.QualityRating,
		asset.QualityNotes,
		episodes,
		asset.UseCount,
		formatTime(asset.CreatedAt),
		nullTime(asset.LastUsedAt),
	)
	if err != nil {
		return mverr.Errorf(mverr.CodeStoreDatabaseFailure, "inserting asset %s: %w", asset.ID, err)
	}

	if vec, ok := asset.Embedding.Vector(); ok {
		blob, err := sqlite_vec.SerializeFloat32(vec)
		if err != nil {
			return mverr.Errorf(mverr.CodeStoreDatabaseFailure, "serializing embedding: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO asset_vectors(id, embedding) VALUES (?, ?)`, asset.ID, blob); err != nil {
			return mverr.Errorf(mverr.CodeStoreDatabaseFailure, "inserting vector for %s: %w", asset.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return mverr.Errorf(mverr.CodeStoreDatabaseFailure, "committing asset %s: %w", asset.ID, err)
	}
	return nil
}

// Get returns the asset with the given ID.
func (s *AssetStore) Get(ctx context.Context, id string) (*store.MediaAsset, error) {
	const q = `SELECT ` + assetColumns + ` FROM assets WHERE id = ?`

	row := s.db.QueryRowContext(ctx, q, id)
	asset, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, mverr.New(mverr.CodeStoreAssetNotFound, "asset not found", mverr.FieldAssetID(id))
		}
		return nil, mverr.Errorf(mverr.CodeStoreDatabaseFailure, "getting asset %s: %w", id, err)
	}

	if asset.Embedding.Computed() {
		if err := s.loadVector(ctx, asset); err != nil {
			return nil, err
		}
	}

	return asset, nil
}

// Select performs a full scan and returns every asset matching pred.
func (s *AssetStore) Select(ctx context.Context, pred store.Predicate) ([]*store.MediaAsset, error) {
	const q = `SELECT ` + assetColumns + ` FROM assets ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, mverr.Errorf(mverr.CodeStoreDatabaseFailure, "scanning assets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var assets []*store.MediaAsset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, mverr.Errorf(mverr.CodeStoreDatabaseFailure, "scanning asset row: %w", err)
		}
		if pred == nil || pred(asset) {
			assets = append(assets, asset)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, mverr.Errorf(mverr.CodeStoreDatabaseFailure, "iterating assets: %w", err)
	}

	return assets, nil
}

// List returns a filtered page of assets plus the total match count.
func (s *AssetStore) List(ctx context.Context, filter store.ListFilter, opts store.ListOpts) ([]*store.MediaAsset, int, error) {
	var (
		where []string
		args  []any
	)
	if filter.MediaType != nil {
		where = append(where, "media_type = ?")
		args = append(args, string(*filter.MediaType))
	}
	if filter.Source != nil {
		where = append(where, "source = ?")
		args = append(args, *filter.Source)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets`+clause, args...).Scan(&total); err != nil {
		return nil, 0, mverr.Errorf(mverr.CodeStoreDatabaseFailure, "counting assets: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	q := `SELECT ` + assetColumns + ` FROM assets` + clause + ` ORDER BY created_at LIMIT ? OFFSET ?`
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, mverr.Errorf(mverr.CodeStoreDatabaseFailure, "listing assets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var assets []*store.MediaAsset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, 0, mverr.Errorf(mverr.CodeStoreDatabaseFailure, "scanning asset row: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mverr.Errorf(mverr.CodeStoreDatabaseFailure, "iterating assets: %w", err)
	}

	return assets, total, nil
}

// UpdateRating sets quality_rating and quality_notes by exact-id match.
func (s *AssetStore) UpdateRating(ctx context.Context, id string, rating int, notes *string) error {
	const q = `UPDATE assets SET quality_rating = ?, quality_notes = ? WHERE id = ?`

	res, err := s.db.ExecContext(ctx, q, rating, notes, id)
	if err != nil {
		return mverr.Errorf(mverr.CodeStoreDatabaseFailure, "updating rating for %s: %w", id, err)
	}
	return requireRow(res, id)
}

// UpdateEpisodes replaces the full episode assignment set by exact-id match.
func (s *AssetStore) UpdateEpisodes(ctx context.Context, id string, episodes []int) error {
	encoded, err := marshalInts(episodes)
	if err != nil {
		return mverr.Errorf(mverr.CodeStoreDatabaseFailure, "marshalling episode assignments: %w", err)
	}

	const q = `UPDATE assets SET episode_assignments = ? WHERE id = ?`

	res, err := s.db.ExecContext(ctx, q, encoded, id)
	if err != nil {
		return mverr.Errorf(mverr.CodeStoreDatabaseFailure, "updating episodes for %s: %w", id, err)
	}
	return requireRow(res, id)
}

// requireRow converts a zero-row update into a not-found error.
func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mverr.Errorf(mverr.CodeStoreDatabaseFailure, "checking rows affected: %w", err)
	}
	if n == 0 {
		return mverr.New(mverr.CodeStoreAssetNotFound, "asset not found", mverr.FieldAssetID(id))
	}
	return nil
}

// loadVector populates the embedding vector of an asset marked computed.
func (s *AssetStore) loadVector(ctx context.Context, asset *store.MediaAsset) error {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT embedding FROM asset_vectors WHERE id = ?`, asset.ID).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// State says computed but the vector row is gone; degrade
			// rather than fail the read.
			asset.Embedding = store.UnavailableEmbedding()
			return nil
		}
		return mverr.Errorf(mverr.CodeStoreDatabaseFailure, "loading vector for %s: %w", asset.ID, err)
	}

	vec := deserializeFloat32(blob)
	asset.Embedding = store.ComputedEmbedding(vec)
	return nil
}

// deserializeFloat32 decodes the little-endian float32 blob stored by vec0.
func deserializeFloat32(blob []byte) []float32 {
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		bits := uint32(blob[i*4]) | uint32(blob[i*4+1])<<8 | uint32(blob[i*4+2])<<16 | uint32(blob[i*4+3])<<24
		vec[i] = math.Float32frombits(bits)
	}
	return vec
}

// scanner abstracts *sql.Row and *sql.Rows for scanAsset.
type scanner interface {
	Scan(dest ...any) error
}

// scanAsset reads one asset row in assetColumns order. The embedding
// vector itself is not loaded here; callers that need it fetch it from
// asset_vectors separately.
func scanAsset(row scanner) (*store.MediaAsset, error) {
	var (
		id, filename, mediaType, embeddingState, source, format string
		image, video, thumbnail                                 []byte
		genPrompt, genModel, contentType, qualityNotes          sql.NullString
		genTime, genCost, duration                              sql.NullFloat64
		width, height, qualityRating                            sql.NullInt64
		fileSize                                                int64
		subjects, styleTags, episodes                           string
		useCount                                                int
		createdAt                                               string
		lastUsedAt                                              sql.NullString
	)

	err := row.Scan(
		&id, &filename, &mediaType, &image, &video, &thumbnail, &embeddingState,
		&source, &genPrompt, &genModel, &genTime, &genCost,
		&width, &height, &duration, &fileSize, &format, &contentType,
		&subjects, &styleTags, &qualityRating, &qualityNotes, &episodes,
		&useCount, &createdAt, &lastUsedAt,
	)
	if err != nil {
		return nil, err
	}

	var content store.Content
	switch store.MediaType(mediaType) {
	case store.MediaTypeVideo:
		content = store.VideoContent(video, thumbnail)
	default:
		content = store.ImageContent(image)
	}

	embedding := store.UnavailableEmbedding()
	if store.EmbeddingState(embeddingState) == store.EmbeddingComputed {
		// Placeholder marker; the caller loads the actual vector when needed.
		embedding = store.ComputedEmbedding(nil)
	}

	subjectList, err := unmarshalStrings(subjects)
	if err != nil {
		return nil, err
	}
	styleList, err := unmarshalStrings(styleTags)
	if err != nil {
		return nil, err
	}
	episodeList, err := unmarshalInts(episodes)
	if err != nil {
		return nil, err
	}

	asset := &store.MediaAsset{
		ID:        id,
		Filename:  filename,
		Content:   content,
		Embedding: embedding,
		Provenance: store.Provenance{
			Source:                source,
			GenerationPrompt:      nullStringPtr(genPrompt),
			GenerationModel:       nullStringPtr(genModel),
			GenerationTimeSeconds: nullFloatPtr(genTime),
			GenerationCostUSD:     nullFloatPtr(genCost),
		},
		Specs: store.TechSpecs{
			Width:           nullIntPtr(width),
			Height:          nullIntPtr(height),
			DurationSeconds: nullFloatPtr(duration),
			FileSizeBytes:   fileSize,
			Format:          format,
		},
		Classification: store.Classification{
			ContentType: nullStringPtr(contentType),
			Subjects:    subjectList,
			StyleTags:   styleList,
		},
		QualityRating:      nullIntPtr(qualityRating),
		QualityNotes:       nullStringPtr(qualityNotes),
		EpisodeAssignments: episodeList,
		UseCount:           useCount,
		CreatedAt:          parseTime(createdAt),
	}

	if lastUsedAt.Valid && lastUsedAt.String != "" {
		t := parseTime(lastUsedAt.String)
		asset.LastUsedAt = &t
	}

	return asset, nil
}

// --- encoding helpers ---

func marshalStrings(vals []string) (string, error) {
	if vals == nil {
		vals = []string{}
	}
	out, err := json.Marshal(vals)
	return string(out), err
}

func unmarshalStrings(encoded string) ([]string, error) {
	if encoded == "" || encoded == "[]" {
		return nil, nil
	}
	var vals []string
	if err := json.Unmarshal([]byte(encoded), &vals); err != nil {
		return nil, err
	}
	return vals, nil
}

func marshalInts(vals []int) (string, error) {
	if vals == nil {
		vals = []int{}
	}
	out, err := json.Marshal(vals)
	return string(out), err
}

func unmarshalInts(encoded string) ([]int, error) {
	if encoded == "" || encoded == "[]" {
		return nil, nil
	}
	var vals []int
	if err := json.Unmarshal([]byte(encoded), &vals); err != nil {
		return nil, err
	}
	return vals, nil
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func nullStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullFloatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
