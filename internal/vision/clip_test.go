// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package vision_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediavault-dev/mediavault/internal/vision"
	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

func embeddingResponse(t *testing.T, w http.ResponseWriter, vec []float32) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"embedding": vec}))
}

func TestEncodeImageSendsBase64Payload(t *testing.T) {
	imageData := []byte{0x89, 0x50, 0x4e, 0x47}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embed/image", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body struct {
			ImageBase64 string `json:"image_base64"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		decoded, err := base64.StdEncoding.DecodeString(body.ImageBase64)
		require.NoError(t, err)
		assert.Equal(t, imageData, decoded)

		embeddingResponse(t, w, []float32{0.6, 0.8})
	}))
	defer srv.Close()

	client := vision.NewCLIPClient(srv.URL, 2)
	vec, err := client.EncodeImage(context.Background(), imageData)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.6, 0.8}, vec, 1e-6)
}

func TestEncodeTextSendsPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embed/text", r.URL.Path)

		var body struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a misty forest", body.Text)

		embeddingResponse(t, w, []float32{1, 0})
	}))
	defer srv.Close()

	client := vision.NewCLIPClient(srv.URL, 2)
	vec, err := client.EncodeText(context.Background(), "a misty forest")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{1, 0}, vec, 1e-6)
}

func TestEncodeUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := vision.NewCLIPClient(srv.URL, 2)
	_, err := client.EncodeText(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, mverr.IsUpstreamFailure(err))
}

func TestEncodeDimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		embeddingResponse(t, w, []float32{1, 0, 0})
	}))
	defer srv.Close()

	client := vision.NewCLIPClient(srv.URL, 2)
	_, err := client.EncodeImage(context.Background(), []byte("img"))
	require.Error(t, err)
	assert.True(t, mverr.IsInvalidInput(err))
}

func TestDimensions(t *testing.T) {
	client := vision.NewCLIPClient("http://127.0.0.1:1", 512)
	assert.Equal(t, 512, client.Dimensions())
}
