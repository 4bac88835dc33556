// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package library

import (
	"context"
	"math"

	"github.com/mediavault-dev/mediavault/internal/store"
)

// Stats aggregates counts, size, source histogram, and quality figures over
// the whole library.
func (l *Library) Stats(ctx context.Context) (*store.Stats, error) {
	assets, err := l.store.Select(ctx, nil)
	if err != nil {
		return nil, err
	}

	stats := &store.Stats{Sources: map[string]int{}}
	var totalBytes int64
	var ratingSum int
	for _, a := range assets {
		stats.TotalAssets++
		switch a.MediaType() {
		case store.MediaTypeVideo:
			stats.Videos++
		default:
			stats.Images++
		}
		totalBytes += a.Specs.FileSizeBytes
		if a.Provenance.Source != "" {
			stats.Sources[a.Provenance.Source]++
		}
		if a.QualityRating != nil {
			stats.RatedCount++
			ratingSum += *a.QualityRating
		} else {
			stats.UnratedCount++
		}
	}

	stats.TotalSizeMB = math.Round(float64(totalBytes)/(1024*1024)*100) / 100
	if stats.RatedCount > 0 {
		avg := math.Round(float64(ratingSum)/float64(stats.RatedCount)*10) / 10
		stats.AvgQuality = &avg
	}
	return stats, nil
}
