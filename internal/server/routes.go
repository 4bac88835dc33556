// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mediavault-dev/mediavault/internal/library"
	"github.com/mediavault-dev/mediavault/internal/store"
	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

func (s *Server) registerRoutes() {
	// Search endpoints
	huma.Register(s.api, huma.Operation{
		OperationID: "search-theme",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/theme",
		Summary:     "Search assets by theme description",
		Tags:        []string{"search"},
	}, s.handleSearchTheme)

	huma.Register(s.api, huma.Operation{
		OperationID: "search-similar",
		Method:      http.MethodPost,
		Path:        "/api/v1/search/similar",
		Summary:     "Find assets similar to a reference image",
		Tags:        []string{"search"},
	}, s.handleSearchSimilar)

	huma.Register(s.api, huma.Operation{
		OperationID: "search-subject",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/subject/{subject}",
		Summary:     "Find assets tagged with a subject",
		Tags:        []string{"search"},
	}, s.handleSearchSubject)

	huma.Register(s.api, huma.Operation{
		OperationID: "search-episode",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/episode/{episode}",
		Summary:     "Find assets assigned to an episode",
		Tags:        []string{"search"},
	}, s.handleSearchEpisode)

	// Asset endpoints
	huma.Register(s.api, huma.Operation{
		OperationID: "list-assets",
		Method:      http.MethodGet,
		Path:        "/api/v1/assets",
		Summary:     "List assets with pagination",
		Tags:        []string{"assets"},
	}, s.handleListAssets)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-asset",
		Method:      http.MethodGet,
		Path:        "/api/v1/assets/{id}",
		Summary:     "Get asset metadata",
		Tags:        []string{"assets"},
	}, s.handleGetAsset)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-asset-content",
		Method:      http.MethodGet,
		Path:        "/api/v1/assets/{id}/content",
		Summary:     "Download asset binary content",
		Tags:        []string{"assets"},
	}, s.handleGetAssetContent)

	huma.Register(s.api, huma.Operation{
		OperationID: "add-image",
		Method:      http.MethodPost,
		Path:        "/api/v1/assets/image",
		Summary:     "Ingest an image from a server-local path",
		Tags:        []string{"assets"},
	}, s.handleAddImage)

	huma.Register(s.api, huma.Operation{
		OperationID: "add-video",
		Method:      http.MethodPost,
		Path:        "/api/v1/assets/video",
		Summary:     "Ingest a video from a server-local path",
		Tags:        []string{"assets"},
	}, s.handleAddVideo)

	huma.Register(s.api, huma.Operation{
		OperationID: "rate-asset",
		Method:      http.MethodPost,
		Path:        "/api/v1/assets/rate",
		Summary:     "Set an asset's quality rating",
		Tags:        []string{"assets"},
	}, s.handleRateAsset)

	huma.Register(s.api, huma.Operation{
		OperationID: "assign-episode",
		Method:      http.MethodPost,
		Path:        "/api/v1/assets/assign-episode",
		Summary:     "Assign an asset to an episode",
		Tags:        []string{"assets"},
	}, s.handleAssignEpisode)

	// System endpoints
	huma.Register(s.api, huma.Operation{
		OperationID: "library-stats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Library statistics",
		Tags:        []string{"system"},
	}, s.handleStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "backup",
		Method:      http.MethodPost,
		Path:        "/api/v1/backup",
		Summary:     "Back up the library to a destination directory",
		Tags:        []string{"system"},
	}, s.handleBackup)
}

// --- Request/Response types for huma ---

type searchThemeInput struct {
	Query      string `query:"q" minLength:"1" doc:"Theme description"`
	Limit      int    `query:"limit" default:"10" minimum:"1" maximum:"100"`
	MinQuality int    `query:"min_quality" doc:"Minimum quality rating, 0 disables the filter"`
	MediaType  string `query:"media_type" doc:"Restrict results to one media type"`
}
type searchResultsOutput struct {
	Body struct {
		Results []ScoredAssetSummary `json:"results"`
	}
}

type searchSimilarInput struct {
	Body struct {
		ImageBase64 string `json:"image_base64" minLength:"1" doc:"Base64-encoded reference image"`
		Limit       int    `json:"limit,omitempty" doc:"Maximum results, default 10"`
		MediaType   string `json:"media_type,omitempty"`
	}
}

type searchSubjectInput struct {
	Subject   string `path:"subject"`
	MediaType string `query:"media_type"`
}
type assetListOutput struct {
	Body struct {
		Assets []AssetSummary `json:"assets"`
	}
}

type searchEpisodeInput struct {
	Episode    int  `path:"episode" minimum:"1" maximum:"8"`
	Unassigned bool `query:"unassigned" doc:"Return assets with no episode assignment instead"`
}

type listAssetsInput struct {
	MediaType string `query:"media_type"`
	Source    string `query:"source"`
	Limit     int    `query:"limit" default:"50" minimum:"1" maximum:"500"`
	Offset    int    `query:"offset" minimum:"0"`
}
type listAssetsOutput struct {
	Body struct {
		Assets []AssetSummary `json:"assets"`
		Total  int            `json:"total"`
		Limit  int            `json:"limit"`
		Offset int            `json:"offset"`
	}
}

type assetIDInput struct {
	ID string `path:"id"`
}
type getAssetOutput struct {
	Body AssetSummary
}

type assetContentOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

type addAssetInput struct {
	Body struct {
		FilePath           string   `json:"file_path" minLength:"1" doc:"Server-local path to the media file"`
		Source             string   `json:"source,omitempty"`
		GenerationPrompt   string   `json:"generation_prompt,omitempty"`
		GenerationModel    string   `json:"generation_model,omitempty"`
		ContentType        string   `json:"content_type,omitempty"`
		Subjects           []string `json:"subjects,omitempty"`
		StyleTags          []string `json:"style_tags,omitempty"`
		QualityRating      *int     `json:"quality_rating,omitempty"`
		QualityNotes       string   `json:"quality_notes,omitempty"`
		EpisodeAssignments []int    `json:"episode_assignments,omitempty"`
	}
}
type addAssetOutput struct {
	Body struct {
		ID string `json:"id" doc:"Identifier of the ingested asset"`
	}
}

type rateAssetInput struct {
	Body struct {
		AssetID string  `json:"asset_id" minLength:"1"`
		Rating  int     `json:"rating" doc:"Quality rating between 1 and 10"`
		Notes   *string `json:"notes,omitempty"`
	}
}
type statusOutput struct {
	Body struct {
		Status string `json:"status" example:"ok"`
	}
}

type assignEpisodeInput struct {
	Body struct {
		AssetID string `json:"asset_id" minLength:"1"`
		Episode int    `json:"episode" doc:"Episode number between 1 and 8"`
	}
}

type statsOutput struct {
	Body store.Stats
}

type backupInput struct {
	Body struct {
		Destination string `json:"destination" minLength:"1" doc:"Directory to back up into"`
	}
}

// --- Handlers ---

func (s *Server) handleSearchTheme(ctx context.Context, input *searchThemeInput) (*searchResultsOutput, error) {
	var minQuality *int
	if input.MinQuality > 0 {
		minQuality = &input.MinQuality
	}
	scored, err := s.media.FindByTheme(ctx, input.Query, input.Limit, minQuality, parseMediaType(input.MediaType))
	if err != nil {
		return nil, mapServiceError(err, "searching by theme")
	}
	out := &searchResultsOutput{}
	out.Body.Results = summarizeScored(scored)
	return out, nil
}

func (s *Server) handleSearchSimilar(ctx context.Context, input *searchSimilarInput) (*searchResultsOutput, error) {
	image, err := base64.StdEncoding.DecodeString(input.Body.ImageBase64)
	if err != nil {
		return nil, huma.Error400BadRequest("image_base64 is not valid base64", err)
	}
	limit := input.Body.Limit
	if limit <= 0 {
		limit = 10
	}
	scored, err := s.media.FindSimilar(ctx, image, limit, parseMediaType(input.Body.MediaType))
	if err != nil {
		return nil, mapServiceError(err, "searching by similarity")
	}
	out := &searchResultsOutput{}
	out.Body.Results = summarizeScored(scored)
	return out, nil
}

func (s *Server) handleSearchSubject(ctx context.Context, input *searchSubjectInput) (*assetListOutput, error) {
	assets, err := s.media.FindBySubject(ctx, input.Subject, parseMediaType(input.MediaType))
	if err != nil {
		return nil, mapServiceError(err, "searching by subject")
	}
	out := &assetListOutput{}
	out.Body.Assets = summarizeAssets(assets)
	return out, nil
}

func (s *Server) handleSearchEpisode(ctx context.Context, input *searchEpisodeInput) (*assetListOutput, error) {
	assets, err := s.media.FindForEpisode(ctx, input.Episode, input.Unassigned)
	if err != nil {
		return nil, mapServiceError(err, "searching by episode")
	}
	out := &assetListOutput{}
	out.Body.Assets = summarizeAssets(assets)
	return out, nil
}

func (s *Server) handleListAssets(ctx context.Context, input *listAssetsInput) (*listAssetsOutput, error) {
	filter := store.ListFilter{MediaType: parseMediaType(input.MediaType)}
	if input.Source != "" {
		filter.Source = &input.Source
	}
	assets, total, err := s.media.ListAssets(ctx, filter, store.ListOpts{Limit: input.Limit, Offset: input.Offset})
	if err != nil {
		return nil, mapServiceError(err, "listing assets")
	}
	out := &listAssetsOutput{}
	out.Body.Assets = summarizeAssets(assets)
	out.Body.Total = total
	out.Body.Limit = input.Limit
	out.Body.Offset = input.Offset
	return out, nil
}

func (s *Server) handleGetAsset(ctx context.Context, input *assetIDInput) (*getAssetOutput, error) {
	asset, err := s.media.GetAsset(ctx, input.ID)
	if err != nil {
		return nil, mapServiceError(err, fmt.Sprintf("getting asset %q", input.ID))
	}
	return &getAssetOutput{Body: summarizeAsset(asset)}, nil
}

func (s *Server) handleGetAssetContent(ctx context.Context, input *assetIDInput) (*assetContentOutput, error) {
	data, mime, filename, err := s.media.Content(ctx, input.ID)
	if err != nil {
		return nil, mapServiceError(err, fmt.Sprintf("getting content for asset %q", input.ID))
	}
	return &assetContentOutput{
		ContentType:        mime,
		ContentDisposition: fmt.Sprintf("inline; filename=%q", filename),
		Body:               data,
	}, nil
}

func (s *Server) handleAddImage(ctx context.Context, input *addAssetInput) (*addAssetOutput, error) {
	id, err := s.media.AddImage(ctx, input.Body.FilePath, ingestSource(input), ingestOptions(input))
	if err != nil {
		return nil, mapServiceError(err, "ingesting image")
	}
	out := &addAssetOutput{}
	out.Body.ID = id
	return out, nil
}

func (s *Server) handleAddVideo(ctx context.Context, input *addAssetInput) (*addAssetOutput, error) {
	id, err := s.media.AddVideo(ctx, input.Body.FilePath, ingestSource(input), ingestOptions(input))
	if err != nil {
		return nil, mapServiceError(err, "ingesting video")
	}
	out := &addAssetOutput{}
	out.Body.ID = id
	return out, nil
}

func (s *Server) handleRateAsset(ctx context.Context, input *rateAssetInput) (*statusOutput, error) {
	if err := s.media.RateAsset(ctx, input.Body.AssetID, input.Body.Rating, input.Body.Notes); err != nil {
		return nil, mapServiceError(err, fmt.Sprintf("rating asset %q", input.Body.AssetID))
	}
	out := &statusOutput{}
	out.Body.Status = "rated"
	return out, nil
}

func (s *Server) handleAssignEpisode(ctx context.Context, input *assignEpisodeInput) (*statusOutput, error) {
	if err := s.media.AssignToEpisode(ctx, input.Body.AssetID, input.Body.Episode); err != nil {
		return nil, mapServiceError(err, fmt.Sprintf("assigning asset %q", input.Body.AssetID))
	}
	out := &statusOutput{}
	out.Body.Status = "assigned"
	return out, nil
}

func (s *Server) handleStats(ctx context.Context, _ *struct{}) (*statsOutput, error) {
	stats, err := s.media.Stats(ctx)
	if err != nil {
		return nil, mapServiceError(err, "computing stats")
	}
	return &statsOutput{Body: *stats}, nil
}

func (s *Server) handleBackup(ctx context.Context, input *backupInput) (*statusOutput, error) {
	if err := s.media.BackupTo(ctx, input.Body.Destination); err != nil {
		return nil, mapServiceError(err, "backing up library")
	}
	out := &statusOutput{}
	out.Body.Status = "backed up"
	return out, nil
}

// --- Helpers ---

func parseMediaType(s string) *store.MediaType {
	switch s {
	case string(store.MediaTypeImage):
		mt := store.MediaTypeImage
		return &mt
	case string(store.MediaTypeVideo):
		mt := store.MediaTypeVideo
		return &mt
	default:
		return nil
	}
}

func ingestSource(input *addAssetInput) string {
	if input.Body.Source == "" {
		return "upload"
	}
	return input.Body.Source
}

func ingestOptions(input *addAssetInput) library.IngestOptions {
	return library.IngestOptions{
		GenerationPrompt:   input.Body.GenerationPrompt,
		GenerationModel:    input.Body.GenerationModel,
		ContentType:        input.Body.ContentType,
		Subjects:           input.Body.Subjects,
		StyleTags:          input.Body.StyleTags,
		QualityRating:      input.Body.QualityRating,
		QualityNotes:       input.Body.QualityNotes,
		EpisodeAssignments: input.Body.EpisodeAssignments,
	}
}

// mapServiceError translates library and store error codes into HTTP errors.
func mapServiceError(err error, msg string) error {
	switch {
	case mverr.IsNotFound(err):
		return huma.Error404NotFound(msg, err)
	case mverr.IsInvalidInput(err):
		return huma.Error400BadRequest(msg, err)
	case mverr.IsUpstreamFailure(err):
		return huma.Error502BadGateway(msg, err)
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}
