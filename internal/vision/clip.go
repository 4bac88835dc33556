// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"

	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

// Compile-time interface check.
var _ EmbeddingProvider = (*CLIPClient)(nil)

// CLIPClient talks to a CLIP inference sidecar over HTTP. The sidecar
// exposes POST /embed/image (base64 payload) and POST /embed/text, both
// returning a normalized vector in the shared image/text space. One
// client instance is constructed at process start and injected into the
// library, so every ingestion and every query embeds through the same
// model and version.
type CLIPClient struct {
	baseURL    string
	dimensions int
	http       *http.Client
}

// CLIPOption customises a CLIPClient.
type CLIPOption func(*CLIPClient)

// WithHTTPClient overrides the HTTP client (used by tests).
func WithHTTPClient(c *http.Client) CLIPOption {
	return func(p *CLIPClient) { p.http = c }
}

// NewCLIPClient creates a provider targeting the sidecar at baseURL,
// expecting vectors of the given dimensionality.
func NewCLIPClient(baseURL string, dimensions int, opts ...CLIPOption) *CLIPClient {
	p := &CLIPClient{
		baseURL:    baseURL,
		dimensions: dimensions,
		http:       &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dimensions returns the configured vector dimensionality.
func (p *CLIPClient) Dimensions() int { return p.dimensions }

type embedImageRequest struct {
	ImageBase64 string `json:"image_base64"`
}

type embedTextRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// EncodeImage embeds raw image bytes via the sidecar.
func (p *CLIPClient) EncodeImage(ctx context.Context, image []byte) ([]float32, error) {
	req := embedImageRequest{ImageBase64: base64.StdEncoding.EncodeToString(image)}
	return p.embed(ctx, "/embed/image", req)
}

// EncodeText embeds a text string via the sidecar.
func (p *CLIPClient) EncodeText(ctx context.Context, text string) ([]float32, error) {
	return p.embed(ctx, "/embed/text", embedTextRequest{Text: text})
}

func (p *CLIPClient) embed(ctx context.Context, path string, payload any) ([]float32, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, mverr.Errorf(mverr.CodeVisionEmbedUpstream, "marshalling embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, mverr.Errorf(mverr.CodeVisionEmbedUpstream, "building embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, mverr.Wrapf(err, mverr.CodeVisionEmbedUpstream, "calling embedding provider at %s", p.baseURL+path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, mverr.Errorf(mverr.CodeVisionEmbedUpstream,
			"embedding provider returned status %d: %s", resp.StatusCode, string(msg))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, mverr.Errorf(mverr.CodeVisionResponseInvalid, "decoding embed response: %w", err)
	}

	if len(out.Embedding) != p.dimensions {
		return nil, mverr.Errorf(mverr.CodeVisionResponseInvalid,
			"embedding provider returned %d dimensions, expected %d", len(out.Embedding), p.dimensions)
	}

	return out.Embedding, nil
}
