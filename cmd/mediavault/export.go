// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <asset-id> <output-path>",
		Short: "Export an asset's binary content to a file",
		Long:  "Write the asset's stored bytes to the given path, byte for byte as ingested.",
		Args:  cobra.ExactArgs(2),
		RunE:  runExport,
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lib, err := openLibrary(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = lib.Close() }()

	if err := lib.ExportAsset(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], args[1])
	return nil
}
