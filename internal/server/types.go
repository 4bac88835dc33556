// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package server

import (
	"time"

	"github.com/mediavault-dev/mediavault/internal/store"
)

// AssetSummary is the JSON shape of an asset in API responses. Binary
// content is never included; clients fetch it from the content endpoint.
type AssetSummary struct {
	ID                 string     `json:"id" doc:"Asset identifier"`
	Filename           string     `json:"filename"`
	MediaType          string     `json:"media_type" enum:"image,video"`
	Source             string     `json:"source,omitempty"`
	GenerationPrompt   *string    `json:"generation_prompt,omitempty"`
	GenerationModel    *string    `json:"generation_model,omitempty"`
	Width              *int       `json:"width,omitempty"`
	Height             *int       `json:"height,omitempty"`
	DurationSeconds    *float64   `json:"duration_seconds,omitempty"`
	FileSizeBytes      int64      `json:"file_size_bytes"`
	Format             string     `json:"format,omitempty"`
	ContentType        *string    `json:"content_type,omitempty"`
	Subjects           []string   `json:"subjects,omitempty"`
	StyleTags          []string   `json:"style_tags,omitempty"`
	QualityRating      *int       `json:"quality_rating,omitempty"`
	QualityNotes       *string    `json:"quality_notes,omitempty"`
	EpisodeAssignments []int      `json:"episode_assignments,omitempty"`
	UseCount           int        `json:"use_count"`
	HasEmbedding       bool       `json:"has_embedding"`
	CreatedAt          time.Time  `json:"created_at"`
	LastUsedAt         *time.Time `json:"last_used_at,omitempty"`
}

// ScoredAssetSummary pairs an asset with its query distance.
type ScoredAssetSummary struct {
	AssetSummary
	Distance float64 `json:"distance" doc:"Embedding distance from the query, lower is closer"`
}

func summarizeAsset(a *store.MediaAsset) AssetSummary {
	return AssetSummary{
		ID:                 a.ID,
		Filename:           a.Filename,
		MediaType:          string(a.MediaType()),
		Source:             a.Provenance.Source,
		GenerationPrompt:   a.Provenance.GenerationPrompt,
		GenerationModel:    a.Provenance.GenerationModel,
		Width:              a.Specs.Width,
		Height:             a.Specs.Height,
		DurationSeconds:    a.Specs.DurationSeconds,
		FileSizeBytes:      a.Specs.FileSizeBytes,
		Format:             a.Specs.Format,
		ContentType:        a.Classification.ContentType,
		Subjects:           a.Classification.Subjects,
		StyleTags:          a.Classification.StyleTags,
		QualityRating:      a.QualityRating,
		QualityNotes:       a.QualityNotes,
		EpisodeAssignments: a.EpisodeAssignments,
		UseCount:           a.UseCount,
		HasEmbedding:       a.Embedding.Computed(),
		CreatedAt:          a.CreatedAt,
		LastUsedAt:         a.LastUsedAt,
	}
}

func summarizeAssets(assets []*store.MediaAsset) []AssetSummary {
	out := make([]AssetSummary, 0, len(assets))
	for _, a := range assets {
		out = append(out, summarizeAsset(a))
	}
	return out
}

func summarizeScored(scored []*store.ScoredAsset) []ScoredAssetSummary {
	out := make([]ScoredAssetSummary, 0, len(scored))
	for _, s := range scored {
		out = append(out, ScoredAssetSummary{
			AssetSummary: summarizeAsset(s.Asset),
			Distance:     s.Distance,
		})
	}
	return out
}
