// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package library_test

import (
	"bytes"
	"context"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mediavault-dev/mediavault/internal/library"
	"github.com/mediavault-dev/mediavault/internal/store/sqlite"
)

const testDimensions = 8

// fakeEmbedder produces deterministic unit vectors from a hash of the input,
// so identical inputs always land at distance zero from each other.
type fakeEmbedder struct {
	imageErr error
	textErr  error
}

func (f *fakeEmbedder) EncodeImage(_ context.Context, data []byte) ([]float32, error) {
	if f.imageErr != nil {
		return nil, f.imageErr
	}
	return hashVector(data), nil
}

func (f *fakeEmbedder) EncodeText(_ context.Context, text string) ([]float32, error) {
	if f.textErr != nil {
		return nil, f.textErr
	}
	return hashVector([]byte(text)), nil
}

func (f *fakeEmbedder) Dimensions() int { return testDimensions }

func hashVector(data []byte) []float32 {
	vec := make([]float32, testDimensions)
	var norm float64
	for i := range vec {
		h := fnv.New32a()
		h.Write([]byte{byte(i)})
		h.Write(data)
		vec[i] = float32(h.Sum32()%1000) + 1
		norm += float64(vec[i]) * float64(vec[i])
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

// fakeFrames serves a canned frame and duration, or nothing when disabled.
type fakeFrames struct {
	frame    []byte
	duration float64
	disabled bool
}

func (f *fakeFrames) ExtractFrame(_ context.Context, _ string, _ time.Duration) ([]byte, bool) {
	if f.disabled || len(f.frame) == 0 {
		return nil, false
	}
	return f.frame, true
}

func (f *fakeFrames) ProbeDuration(_ context.Context, _ string) (float64, bool) {
	if f.disabled {
		return 0, false
	}
	return f.duration, true
}

func newTestLibrary(t *testing.T, frames *fakeFrames) (*library.Library, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := sqlite.Open(filepath.Join(dir, "store"), testDimensions)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	lib := library.New(st, &fakeEmbedder{}, frames,
		library.WithLogger(slog.New(slog.DiscardHandler)))
	return lib, filepath.Join(dir, "store")
}

// makePNG encodes a solid-color PNG so image decoding sees real dimensions.
func makePNG(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
