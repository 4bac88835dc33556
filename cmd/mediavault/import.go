// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mediavault-dev/mediavault/internal/library"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <directory>",
		Short: "Import all media files from a directory",
		Long:  "Scan a directory for images and videos and ingest each into the asset store. Files that fail to ingest are logged and skipped.",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}

	cmd.Flags().String("source", "import", "provenance source recorded on each asset")
	cmd.Flags().BoolP("recursive", "r", false, "descend into subdirectories")
	cmd.Flags().StringSlice("subjects", nil, "subject tags applied to every imported asset")
	cmd.Flags().String("content-type", "", "content type applied to every imported asset")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lib, err := openLibrary(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = lib.Close() }()

	source, _ := cmd.Flags().GetString("source")
	recursive, _ := cmd.Flags().GetBool("recursive")
	subjects, _ := cmd.Flags().GetStringSlice("subjects")
	contentType, _ := cmd.Flags().GetString("content-type")

	opts := library.IngestOptions{
		Subjects:    subjects,
		ContentType: contentType,
	}
	count, err := lib.ImportDirectory(cmd.Context(), args[0], source, recursive, opts)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d assets from %s\n", count, args[0])
	return nil
}
