// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

// Package vision defines the external collaborator contracts of the media
// store: the embedding provider that maps images and text into one shared
// vector space, and the best-effort frame/probe extractor for videos.
package vision

import (
	"context"
	"time"
)

// EmbeddingProvider turns an image or a text string into a unit-length
// fixed-dimension vector. Image and text embeddings share one space, so a
// text query can rank image and video-frame vectors.
type EmbeddingProvider interface {
	// EncodeImage embeds raw image bytes. The returned vector has the
	// provider's fixed dimensionality and unit L2 norm.
	EncodeImage(ctx context.Context, image []byte) ([]float32, error)

	// EncodeText embeds a text string into the same space as EncodeImage.
	EncodeText(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the provider's fixed vector dimensionality.
	Dimensions() int
}

// FrameExtractor derives a representative still frame and the duration of
// a video file. Both operations are best-effort: ok is false on any
// failure, and no failure is ever surfaced as an error.
type FrameExtractor interface {
	// ExtractFrame captures one frame at the given offset into the video.
	ExtractFrame(ctx context.Context, videoPath string, offset time.Duration) ([]byte, bool)

	// ProbeDuration returns the video duration in seconds.
	ProbeDuration(ctx context.Context, videoPath string) (float64, bool)
}
