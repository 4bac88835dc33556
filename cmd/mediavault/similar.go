// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package main

import (
	"os"

	"github.com/spf13/cobra"

	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

func newSimilarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similar <image-path>",
		Short: "Find assets similar to a reference image",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimilar,
	}

	cmd.Flags().Int("limit", 10, "maximum number of results")
	cmd.Flags().String("media-type", "", "restrict to one media type (image or video)")

	return cmd
}

func runSimilar(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lib, err := openLibrary(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = lib.Close() }()

	image, err := os.ReadFile(args[0])
	if err != nil {
		return mverr.Wrap(err, mverr.CodeCLIInputInvalid, "reading reference image", mverr.FieldPath(args[0]))
	}

	limit, _ := cmd.Flags().GetInt("limit")
	mediaTypeFlag, _ := cmd.Flags().GetString("media-type")

	scored, err := lib.FindSimilar(cmd.Context(), image, limit, mediaTypeFilter(mediaTypeFlag))
	if err != nil {
		return err
	}

	printScored(cmd.OutOrStdout(), scored)
	return nil
}
