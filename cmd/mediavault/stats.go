// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show library statistics",
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lib, err := openLibrary(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = lib.Close() }()

	stats, err := lib.Stats(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Assets:   %d (%d images, %d videos)\n", stats.TotalAssets, stats.Images, stats.Videos)
	_, _ = fmt.Fprintf(out, "Size:     %.2f MB\n", stats.TotalSizeMB)
	if stats.AvgQuality != nil {
		_, _ = fmt.Fprintf(out, "Quality:  %.1f average over %d rated (%d unrated)\n", *stats.AvgQuality, stats.RatedCount, stats.UnratedCount)
	} else {
		_, _ = fmt.Fprintf(out, "Quality:  no rated assets\n")
	}

	if len(stats.Sources) > 0 {
		_, _ = fmt.Fprintln(out, "Sources:")
		names := make([]string, 0, len(stats.Sources))
		for name := range stats.Sources {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			_, _ = fmt.Fprintf(out, "  %-12s %d\n", name, stats.Sources[name])
		}
	}

	return nil
}
