// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [destination]",
		Short: "Back up the asset store to a destination directory",
		Long:  "Replace the destination directory with a full copy of the asset store. Falls back to backup.destination from config when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBackup,
	}
}

func runBackup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dest := cfg.Backup.Destination
	if len(args) > 0 {
		dest = args[0]
	}
	if dest == "" {
		return mverr.New(mverr.CodeCLIInputInvalid, "no backup destination: pass one or set backup.destination")
	}

	lib, err := openLibrary(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = lib.Close() }()

	if err := lib.BackupTo(cmd.Context(), dest); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Backed up to %s\n", dest)
	return nil
}
