// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package library

import (
	"bytes"
	"context"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Register decoders so DecodeConfig can read dimensions for every
	// supported image extension.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/google/uuid"

	"github.com/mediavault-dev/mediavault/internal/store"
	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

var (
	imageExtensions = map[string]bool{
		".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".gif": true,
	}
	videoExtensions = map[string]bool{
		".mp4": true, ".mov": true, ".webm": true, ".avi": true,
	}
)

// IngestOptions carries the optional metadata supplied at ingestion.
// Empty strings and nil values mean absent.
type IngestOptions struct {
	GenerationPrompt      string
	GenerationModel       string
	GenerationTimeSeconds *float64
	GenerationCostUSD     *float64
	ContentType           string
	Subjects              []string
	StyleTags             []string
	QualityRating         *int
	QualityNotes          string
	EpisodeAssignments    []int
}

func (o IngestOptions) provenance(source string) store.Provenance {
	return store.Provenance{
		Source:                source,
		GenerationPrompt:      optString(o.GenerationPrompt),
		GenerationModel:       optString(o.GenerationModel),
		GenerationTimeSeconds: o.GenerationTimeSeconds,
		GenerationCostUSD:     o.GenerationCostUSD,
	}
}

func (o IngestOptions) classification() store.Classification {
	return store.Classification{
		ContentType: optString(o.ContentType),
		Subjects:    o.Subjects,
		StyleTags:   o.StyleTags,
	}
}

// AddImage ingests one image file: reads its bytes, decodes dimensions,
// requests an embedding, and appends the assembled record. Returns the
// new asset ID.
func (l *Library) AddImage(ctx context.Context, path, source string, opts IngestOptions) (string, error) {
	data, err := readSourceFile(path)
	if err != nil {
		return "", err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", mverr.Wrapf(err, mverr.CodeIngestDecodeInvalid, "decoding image %s", path)
	}

	embedding, err := l.embedder.EncodeImage(ctx, data)
	if err != nil {
		return "", err
	}

	width, height := cfg.Width, cfg.Height
	asset := &store.MediaAsset{
		ID:             uuid.NewString(),
		Filename:       filepath.Base(path),
		Content:        store.ImageContent(data),
		Embedding:      store.ComputedEmbedding(embedding),
		Provenance:     opts.provenance(source),
		Classification: opts.classification(),
		Specs: store.TechSpecs{
			Width:         &width,
			Height:        &height,
			FileSizeBytes: int64(len(data)),
			Format:        normalizeFormat(path),
		},
		QualityRating:      opts.QualityRating,
		QualityNotes:       optString(opts.QualityNotes),
		EpisodeAssignments: opts.EpisodeAssignments,
		CreatedAt:          time.Now().UTC(),
	}

	if err := l.store.Append(ctx, asset); err != nil {
		return "", err
	}

	l.logger.Info("added image", "filename", asset.Filename, "asset_id", asset.ID,
		"width", cfg.Width, "height", cfg.Height, "size_bytes", len(data))
	return asset.ID, nil
}

// AddVideo ingests one video file. A representative frame is captured at
// the configured offset and embedded into the same space as images; when
// frame capture or embedding fails the asset is stored with an explicitly
// unavailable embedding rather than failing the ingestion, and is then
// excluded from similarity rankings.
func (l *Library) AddVideo(ctx context.Context, path, source string, opts IngestOptions) (string, error) {
	data, err := readSourceFile(path)
	if err != nil {
		return "", err
	}

	embedding := store.UnavailableEmbedding()
	frame, frameOK := l.frames.ExtractFrame(ctx, path, l.frameOffset)
	if frameOK {
		vec, err := l.embedder.EncodeImage(ctx, frame)
		if err != nil {
			l.logger.Warn("embedding video frame failed, storing without embedding",
				"video", path, "error", err)
		} else {
			embedding = store.ComputedEmbedding(vec)
		}
	} else {
		l.logger.Warn("no frame extracted, storing without embedding", "video", path)
	}

	var duration *float64
	if secs, ok := l.frames.ProbeDuration(ctx, path); ok {
		duration = &secs
	}

	asset := &store.MediaAsset{
		ID:             uuid.NewString(),
		Filename:       filepath.Base(path),
		Content:        store.VideoContent(data, frame),
		Embedding:      embedding,
		Provenance:     opts.provenance(source),
		Classification: opts.classification(),
		Specs: store.TechSpecs{
			DurationSeconds: duration,
			FileSizeBytes:   int64(len(data)),
			Format:          normalizeFormat(path),
		},
		QualityRating:      opts.QualityRating,
		QualityNotes:       optString(opts.QualityNotes),
		EpisodeAssignments: opts.EpisodeAssignments,
		CreatedAt:          time.Now().UTC(),
	}

	if err := l.store.Append(ctx, asset); err != nil {
		return "", err
	}

	l.logger.Info("added video", "filename", asset.Filename, "asset_id", asset.ID,
		"embedded", embedding.Computed(), "size_bytes", len(data))
	return asset.ID, nil
}

// ImportDirectory bulk-ingests every image and video under dir. Per-file
// failures are logged and skipped so one bad file never aborts the batch.
// Returns the number of assets successfully ingested.
func (l *Library) ImportDirectory(ctx context.Context, dir, source string, recursive bool, opts IngestOptions) (int, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return 0, mverr.New(mverr.CodeIngestSourceNotFound, "directory not found", mverr.FieldPath(dir))
	}

	var files []string
	if recursive {
		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				l.logger.Warn("skipping unreadable entry", "path", path, "error", err)
				return nil
			}
			if !d.IsDir() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return 0, mverr.Errorf(mverr.CodeIngestReadIO, "walking %s: %w", dir, err)
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return 0, mverr.Errorf(mverr.CodeIngestReadIO, "reading %s: %w", dir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				files = append(files, filepath.Join(dir, entry.Name()))
			}
		}
	}

	count := 0
	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file))

		var err error
		switch {
		case imageExtensions[ext]:
			_, err = l.AddImage(ctx, file, source, opts)
		case videoExtensions[ext]:
			_, err = l.AddVideo(ctx, file, source, opts)
		default:
			continue
		}

		if err != nil {
			l.logger.Error("failed to import file", "path", file, "error", err)
			continue
		}
		count++
	}

	l.logger.Info("imported directory", "dir", dir, "count", count)
	return count, nil
}

// readSourceFile reads a file to ingest, mapping a missing path to a
// not-found error.
func readSourceFile(path string) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, mverr.New(mverr.CodeIngestSourceNotFound, "file not found", mverr.FieldPath(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mverr.Errorf(mverr.CodeIngestReadIO, "reading %s: %w", path, err)
	}
	return data, nil
}

// normalizeFormat derives a consistent format tag from the file extension
// (jpg and jpeg both become "jpeg").
func normalizeFormat(path string) string {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "jpg" {
		format = "jpeg"
	}
	return format
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
