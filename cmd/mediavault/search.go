// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mediavault-dev/mediavault/internal/store"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <theme>",
		Short: "Search assets by theme description",
		Long:  "Embed a free-text theme description and list the closest assets by embedding distance.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}

	cmd.Flags().Int("limit", 10, "maximum number of results")
	cmd.Flags().Int("min-quality", 0, "minimum quality rating (0 disables the filter)")
	cmd.Flags().String("media-type", "", "restrict to one media type (image or video)")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lib, err := openLibrary(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = lib.Close() }()

	limit, _ := cmd.Flags().GetInt("limit")
	minQualityFlag, _ := cmd.Flags().GetInt("min-quality")
	mediaTypeFlag, _ := cmd.Flags().GetString("media-type")

	var minQuality *int
	if minQualityFlag > 0 {
		minQuality = &minQualityFlag
	}

	theme := strings.Join(args, " ")
	scored, err := lib.FindByTheme(cmd.Context(), theme, limit, minQuality, mediaTypeFilter(mediaTypeFlag))
	if err != nil {
		return err
	}

	printScored(cmd.OutOrStdout(), scored)
	return nil
}

func mediaTypeFilter(s string) *store.MediaType {
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

func printScored(w io.Writer, scored []*store.ScoredAsset) {
	if len(scored) == 0 {
		_, _ = fmt.Fprintln(w, "No matching assets")
		return
	}
	for _, s := range scored {
		rating := "-"
		if s.Asset.QualityRating != nil {
			rating = fmt.Sprintf("%d", *s.Asset.QualityRating)
		}
		_, _ = fmt.Fprintf(w, "%s  %-5s  dist=%.4f  rating=%s  %s\n",
			s.Asset.ID, s.Asset.MediaType(), s.Distance, rating, s.Asset.Filename)
	}
}
