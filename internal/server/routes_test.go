// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package server_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediavault-dev/mediavault/internal/library"
	"github.com/mediavault-dev/mediavault/internal/server"
	"github.com/mediavault-dev/mediavault/internal/store"
	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

// mockMediaService serves canned assets keyed by id.
type mockMediaService struct {
	assets     map[string]*store.MediaAsset
	ratedWith  int
	assignedTo int
	backupDest string
}

func newMockMediaService() *mockMediaService {
	rating := 8
	width, height := 16, 9
	img := &store.MediaAsset{
		ID:            "img-1",
		Filename:      "castle.png",
		Content:       store.ImageContent([]byte("png payload")),
		Embedding:     store.ComputedEmbedding([]float32{1, 0}),
		Provenance:    store.Provenance{Source: "midjourney"},
		Specs:         store.TechSpecs{Width: &width, Height: &height, FileSizeBytes: 11, Format: "png"},
		QualityRating: &rating,
		Classification: store.Classification{
			Subjects: []string{"castle"},
		},
		EpisodeAssignments: []int{2},
		CreatedAt:          time.Now().UTC(),
	}
	vid := &store.MediaAsset{
		ID:         "vid-1",
		Filename:   "clip.mp4",
		Content:    store.VideoContent([]byte("video payload"), []byte("thumb")),
		Embedding:  store.UnavailableEmbedding(),
		Provenance: store.Provenance{Source: "veo"},
		Specs:      store.TechSpecs{FileSizeBytes: 13, Format: "mp4"},
		CreatedAt:  time.Now().UTC(),
	}
	return &mockMediaService{assets: map[string]*store.MediaAsset{
		img.ID: img,
		vid.ID: vid,
	}}
}

func (m *mockMediaService) AddImage(_ context.Context, path, _ string, _ library.IngestOptions) (string, error) {
	if path == "/missing.png" {
		return "", mverr.New(mverr.CodeIngestSourceNotFound, "file not found")
	}
	return "new-image-id", nil
}

func (m *mockMediaService) AddVideo(_ context.Context, _, _ string, _ library.IngestOptions) (string, error) {
	return "new-video-id", nil
}

func (m *mockMediaService) FindSimilar(_ context.Context, _ []byte, _ int, _ *store.MediaType) ([]*store.ScoredAsset, error) {
	return []*store.ScoredAsset{{Asset: m.assets["img-1"], Distance: 0.12}}, nil
}

func (m *mockMediaService) FindByTheme(_ context.Context, theme string, _ int, _ *int, _ *store.MediaType) ([]*store.ScoredAsset, error) {
	if theme == "fail" {
		return nil, mverr.New(mverr.CodeVisionEmbedUpstream, "sidecar unreachable")
	}
	return []*store.ScoredAsset{{Asset: m.assets["img-1"], Distance: 0.3}}, nil
}

func (m *mockMediaService) FindBySubject(_ context.Context, subject string, _ *store.MediaType) ([]*store.MediaAsset, error) {
	var out []*store.MediaAsset
	if a := m.assets["img-1"]; a.HasSubject(subject) {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockMediaService) FindForEpisode(_ context.Context, episode int, unassigned bool) ([]*store.MediaAsset, error) {
	if unassigned {
		return []*store.MediaAsset{m.assets["vid-1"]}, nil
	}
	if episode == 2 {
		return []*store.MediaAsset{m.assets["img-1"]}, nil
	}
	return nil, nil
}

func (m *mockMediaService) GetAsset(_ context.Context, id string) (*store.MediaAsset, error) {
	a, ok := m.assets[id]
	if !ok {
		return nil, mverr.New(mverr.CodeStoreAssetNotFound, "asset not found", mverr.FieldAssetID(id))
	}
	return a, nil
}

func (m *mockMediaService) Content(ctx context.Context, id string) ([]byte, string, string, error) {
	a, err := m.GetAsset(ctx, id)
	if err != nil {
		return nil, "", "", err
	}
	return a.Content.Bytes(), fmt.Sprintf("%s/%s", a.MediaType(), a.Specs.Format), a.Filename, nil
}

func (m *mockMediaService) ListAssets(_ context.Context, filter store.ListFilter, _ store.ListOpts) ([]*store.MediaAsset, int, error) {
	var out []*store.MediaAsset
	for _, a := range m.assets {
		if filter.MediaType != nil && a.MediaType() != *filter.MediaType {
			continue
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

func (m *mockMediaService) RateAsset(ctx context.Context, id string, rating int, _ *string) error {
	if rating < 1 || rating > 10 {
		return mverr.New(mverr.CodeLibraryRatingInvalid, "rating must be between 1 and 10")
	}
	if _, err := m.GetAsset(ctx, id); err != nil {
		return err
	}
	m.ratedWith = rating
	return nil
}

func (m *mockMediaService) AssignToEpisode(ctx context.Context, id string, episode int) error {
	if _, err := m.GetAsset(ctx, id); err != nil {
		return err
	}
	m.assignedTo = episode
	return nil
}

func (m *mockMediaService) Stats(_ context.Context) (*store.Stats, error) {
	return &store.Stats{TotalAssets: 2, Images: 1, Videos: 1, RatedCount: 1, UnratedCount: 1}, nil
}

func (m *mockMediaService) BackupTo(_ context.Context, dest string) error {
	m.backupDest = dest
	return nil
}

func newTestServer(t *testing.T) (*server.Server, *mockMediaService) {
	t.Helper()
	srv, err := server.New(server.Config{ListenAddr: "127.0.0.1:0"})
	require.NoError(t, err)
	media := newMockMediaService()
	srv.RegisterServices(media)
	return srv, media
}

func doJSON(t *testing.T, srv *server.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestRoutes_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestRoutes_SearchTheme(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/search/theme?q=castle&limit=5", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []server.ScoredAssetSummary `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "img-1", resp.Results[0].ID)
	assert.InDelta(t, 0.3, resp.Results[0].Distance, 1e-6)
}

func TestRoutes_SearchTheme_UpstreamFailure(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/search/theme?q=fail", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRoutes_SearchSimilar(t *testing.T) {
	srv, _ := newTestServer(t)

	body := map[string]any{
		"image_base64": base64.StdEncoding.EncodeToString([]byte("reference image")),
		"limit":        3,
	}
	w := doJSON(t, srv, http.MethodPost, "/api/v1/search/similar", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "img-1")
}

func TestRoutes_SearchSimilar_BadBase64(t *testing.T) {
	srv, _ := newTestServer(t)

	body := map[string]any{"image_base64": "@@not-base64@@"}
	w := doJSON(t, srv, http.MethodPost, "/api/v1/search/similar", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutes_SearchSubject(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/search/subject/castle", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "img-1")

	w = doJSON(t, srv, http.MethodGet, "/api/v1/search/subject/ocean", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "img-1")
}

func TestRoutes_SearchEpisode(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/search/episode/2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "img-1")

	w = doJSON(t, srv, http.MethodGet, "/api/v1/search/episode/2?unassigned=true", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "vid-1")
}

func TestRoutes_ListAssets(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/assets?media_type=image", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Assets []server.AssetSummary `json:"assets"`
		Total  int                   `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Assets, 1)
	assert.Equal(t, "img-1", resp.Assets[0].ID)
}

func TestRoutes_GetAsset(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/assets/img-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp server.AssetSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "castle.png", resp.Filename)
	assert.True(t, resp.HasEmbedding)
	// Binary content must not leak into metadata responses.
	assert.NotContains(t, w.Body.String(), base64.StdEncoding.EncodeToString([]byte("png payload")))
}

func TestRoutes_GetAsset_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/assets/nonexistent", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes_GetAssetContent(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/assets/img-1/content", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "castle.png")
	assert.Equal(t, []byte("png payload"), w.Body.Bytes())
}

func TestRoutes_AddImage(t *testing.T) {
	srv, _ := newTestServer(t)

	body := map[string]any{
		"file_path": "/srv/incoming/new.png",
		"source":    "midjourney",
		"subjects":  []string{"forest"},
	}
	w := doJSON(t, srv, http.MethodPost, "/api/v1/assets/image", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "new-image-id")
}

func TestRoutes_AddImage_MissingFile(t *testing.T) {
	srv, _ := newTestServer(t)

	body := map[string]any{"file_path": "/missing.png"}
	w := doJSON(t, srv, http.MethodPost, "/api/v1/assets/image", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes_AddVideo(t *testing.T) {
	srv, _ := newTestServer(t)

	body := map[string]any{"file_path": "/srv/incoming/clip.mp4", "source": "veo"}
	w := doJSON(t, srv, http.MethodPost, "/api/v1/assets/video", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "new-video-id")
}

func TestRoutes_RateAsset(t *testing.T) {
	srv, media := newTestServer(t)

	body := map[string]any{"asset_id": "img-1", "rating": 9}
	w := doJSON(t, srv, http.MethodPost, "/api/v1/assets/rate", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 9, media.ratedWith)
}

func TestRoutes_RateAsset_InvalidRating(t *testing.T) {
	srv, _ := newTestServer(t)

	body := map[string]any{"asset_id": "img-1", "rating": 42}
	w := doJSON(t, srv, http.MethodPost, "/api/v1/assets/rate", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutes_AssignEpisode(t *testing.T) {
	srv, media := newTestServer(t)

	body := map[string]any{"asset_id": "img-1", "episode": 4}
	w := doJSON(t, srv, http.MethodPost, "/api/v1/assets/assign-episode", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, media.assignedTo)
}

func TestRoutes_AssignEpisode_UnknownAsset(t *testing.T) {
	srv, _ := newTestServer(t)

	body := map[string]any{"asset_id": "nonexistent", "episode": 4}
	w := doJSON(t, srv, http.MethodPost, "/api/v1/assets/assign-episode", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes_Stats(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var stats store.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalAssets)
	assert.Equal(t, stats.TotalAssets, stats.Images+stats.Videos)
}

func TestRoutes_Backup(t *testing.T) {
	srv, media := newTestServer(t)

	body := map[string]any{"destination": "/mnt/beta/media-backup"}
	w := doJSON(t, srv, http.MethodPost, "/api/v1/backup", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/mnt/beta/media-backup", media.backupDest)
}
