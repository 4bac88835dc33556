// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

func newRateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate <asset-id> <rating>",
		Short: "Set an asset's quality rating (1-10)",
		Args:  cobra.ExactArgs(2),
		RunE:  runRate,
	}

	cmd.Flags().String("notes", "", "free-form quality notes")

	return cmd
}

func runRate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lib, err := openLibrary(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = lib.Close() }()

	rating, err := strconv.Atoi(args[1])
	if err != nil {
		return mverr.Errorf(mverr.CodeCLIInputInvalid, "rating must be a number, got %q", args[1])
	}

	var notes *string
	if n, _ := cmd.Flags().GetString("notes"); n != "" {
		notes = &n
	}

	if err := lib.RateAsset(cmd.Context(), args[0], rating, notes); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rated %s: %d/10\n", args[0], rating)
	return nil
}
