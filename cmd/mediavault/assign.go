// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

func newAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <asset-id> <episode>",
		Short: "Assign an asset to an episode (1-8)",
		Args:  cobra.ExactArgs(2),
		RunE:  runAssign,
	}
}

func runAssign(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lib, err := openLibrary(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = lib.Close() }()

	episode, err := strconv.Atoi(args[1])
	if err != nil {
		return mverr.Errorf(mverr.CodeCLIInputInvalid, "episode must be a number, got %q", args[1])
	}

	if err := lib.AssignToEpisode(cmd.Context(), args[0], episode); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to episode %d\n", args[0], episode)
	return nil
}
