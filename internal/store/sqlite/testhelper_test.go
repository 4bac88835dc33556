// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package sqlite_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mediavault-dev/mediavault/internal/store"
	"github.com/mediavault-dev/mediavault/internal/store/sqlite"
)

const testDimensions = 4

func newTestStore(t *testing.T) *sqlite.AssetStore {
	t.Helper()
	st, err := sqlite.Open(t.TempDir(), testDimensions)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// unitVector builds a normalized test vector pointing mostly along one axis.
func unitVector(axis int) []float32 {
	vec := make([]float32, testDimensions)
	var norm float64
	for i := range vec {
		vec[i] = 0.1
		if i == axis%testDimensions {
			vec[i] = 1
		}
		norm += float64(vec[i]) * float64(vec[i])
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}

func newImageAsset(embedding []float32) *store.MediaAsset {
	emb := store.UnavailableEmbedding()
	if embedding != nil {
		emb = store.ComputedEmbedding(embedding)
	}
	width, height := 16, 16
	return &store.MediaAsset{
		ID:        uuid.NewString(),
		Filename:  "asset.png",
		Content:   store.ImageContent([]byte("png bytes")),
		Embedding: emb,
		Provenance: store.Provenance{
			Source: "test",
		},
		Specs: store.TechSpecs{
			Width:         &width,
			Height:        &height,
			FileSizeBytes: 9,
			Format:        "png",
		},
		CreatedAt: time.Now().UTC(),
	}
}

func newVideoAsset(embedding []float32) *store.MediaAsset {
	asset := newImageAsset(embedding)
	asset.Filename = "asset.mp4"
	asset.Content = store.VideoContent([]byte("video bytes"), []byte("thumb"))
	asset.Specs.Format = "mp4"
	asset.Specs.FileSizeBytes = 11
	return asset
}
