// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package store

import (
	"math"
	"time"
)

// --- Media types ---

// MediaType distinguishes still images from videos.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Content is a tagged union of the binary payload of an asset. Exactly one
// of the image or video payloads is present, selected by the media type.
// A thumbnail only accompanies video content.
type Content struct {
	mediaType MediaType
	image     []byte
	video     []byte
	thumbnail []byte
}

// ImageContent creates image content from raw file bytes.
func ImageContent(data []byte) Content {
	return Content{mediaType: MediaTypeImage, image: data}
}

// VideoContent creates video content from raw file bytes and an optional
// still-frame thumbnail (nil when frame extraction failed).
func VideoContent(data, thumbnail []byte) Content {
	return Content{mediaType: MediaTypeVideo, video: data, thumbnail: thumbnail}
}

// MediaType returns which variant the content holds.
func (c Content) MediaType() MediaType { return c.mediaType }

// Image returns the image payload. ok is false for video content.
func (c Content) Image() ([]byte, bool) {
	return c.image, c.mediaType == MediaTypeImage
}

// Video returns the video payload. ok is false for image content.
func (c Content) Video() ([]byte, bool) {
	return c.video, c.mediaType == MediaTypeVideo
}

// Thumbnail returns the video thumbnail, if one was captured.
func (c Content) Thumbnail() ([]byte, bool) {
	return c.thumbnail, len(c.thumbnail) > 0
}

// Bytes returns the primary payload regardless of variant.
func (c Content) Bytes() []byte {
	if c.mediaType == MediaTypeVideo {
		return c.video
	}
	return c.image
}

// Size returns the primary payload length in bytes.
func (c Content) Size() int64 { return int64(len(c.Bytes())) }

// --- Embedding ---

// EmbeddingState records whether an embedding was actually computed.
type EmbeddingState string

const (
	// EmbeddingComputed marks a real, unit-norm vector from the provider.
	EmbeddingComputed EmbeddingState = "computed"
	// EmbeddingUnavailable marks an asset whose embedding could not be
	// computed (video frame extraction failed). Such assets carry no
	// vector row and never appear in similarity rankings.
	EmbeddingUnavailable EmbeddingState = "unavailable"
)

// Embedding is the similarity vector of an asset, or the explicit absence
// of one. The zero value is unavailable.
type Embedding struct {
	state  EmbeddingState
	vector []float32
}

// ComputedEmbedding wraps a provider vector.
func ComputedEmbedding(vector []float32) Embedding {
	return Embedding{state: EmbeddingComputed, vector: vector}
}

// UnavailableEmbedding marks an asset that has no usable vector.
func UnavailableEmbedding() Embedding {
	return Embedding{state: EmbeddingUnavailable}
}

// Computed returns true when a real vector is present.
func (e Embedding) Computed() bool { return e.state == EmbeddingComputed }

// Vector returns the embedding vector. ok is false when unavailable.
func (e Embedding) Vector() ([]float32, bool) {
	return e.vector, e.state == EmbeddingComputed
}

// Norm returns the L2 norm of the vector, or 0 when unavailable.
func (e Embedding) Norm() float64 {
	var sum float64
	for _, v := range e.vector {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// --- Asset ---

// Provenance records where an asset came from. All fields except Source
// are optional and write-once at ingestion.
type Provenance struct {
	Source                string
	GenerationPrompt      *string
	GenerationModel       *string
	GenerationTimeSeconds *float64
	GenerationCostUSD     *float64
}

// TechSpecs holds technical metadata derived at ingestion.
type TechSpecs struct {
	Width           *int
	Height          *int
	DurationSeconds *float64
	FileSizeBytes   int64
	Format          string
}

// Classification holds content tags set at ingestion.
type Classification struct {
	ContentType *string
	Subjects    []string
	StyleTags   []string
}

// MediaAsset is one ingested image or video with its binary content,
// derived metadata, and similarity embedding. Binary content, provenance,
// and technical specs are write-once; only the quality rating, quality
// notes, and episode assignments mutate after creation.
type MediaAsset struct {
	ID       string
	Filename string
	Content  Content

	Embedding Embedding

	Provenance     Provenance
	Specs          TechSpecs
	Classification Classification

	QualityRating *int
	QualityNotes  *string

	EpisodeAssignments []int
	UseCount           int
	CreatedAt          time.Time
	LastUsedAt         *time.Time
}

// MediaType returns the asset's media type, derived from its content.
func (a *MediaAsset) MediaType() MediaType { return a.Content.MediaType() }

// HasEpisode reports whether the asset is assigned to the given episode.
func (a *MediaAsset) HasEpisode(episode int) bool {
	for _, e := range a.EpisodeAssignments {
		if e == episode {
			return true
		}
	}
	return false
}

// HasSubject reports whether the subject set contains exactly the given tag.
func (a *MediaAsset) HasSubject(subject string) bool {
	for _, s := range a.Classification.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// --- Project ---

// Project tracks a content project and the assets it uses. Reserved
// extension point: the schema exists but no operations mutate it yet.
type Project struct {
	ID                 string
	ProjectName        string
	Theme              string
	AssetIDs           []string
	CreatedAt          time.Time
	PublishedAt        *time.Time
	EngagementLikes    int
	EngagementComments int
	EngagementShares   int
}

// --- Query types ---

// ScoredAsset is one similarity search result. Distance is the vector
// distance to the query; lower is more similar, 0.0 is an exact match.
type ScoredAsset struct {
	Asset    *MediaAsset
	Distance float64
}

// Predicate filters assets during scans. A nil Predicate matches everything.
type Predicate func(*MediaAsset) bool

// ListFilter narrows paginated listings.
type ListFilter struct {
	MediaType *MediaType
	Source    *string
}

// ListOpts provides pagination parameters for list operations.
type ListOpts struct {
	Limit  int
	Offset int
}

// Stats is the collection-level aggregate produced by a full scan.
type Stats struct {
	TotalAssets  int            `json:"total_assets"`
	Images       int            `json:"images"`
	Videos       int            `json:"videos"`
	TotalSizeMB  float64        `json:"total_size_mb"`
	Sources      map[string]int `json:"sources"`
	AvgQuality   *float64       `json:"avg_quality"`
	RatedCount   int            `json:"rated_count"`
	UnratedCount int            `json:"unrated_count"`
}
