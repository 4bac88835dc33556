// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show API server status",
		Long:  "Check the running server's health endpoint and display summary statistics.",
		RunE:  runStatus,
	}

	cmd.Flags().String("address", "", "server address to check (defaults to server.listen)")

	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("address")
	if addr == "" {
		addr = viper.GetString("server.listen")
	}
	out := cmd.OutOrStdout()

	client := newVaultClient(addr)
	var health struct {
		Status string `json:"status"`
	}
	if err := client.getJSON("/health", &health); err != nil {
		if mverr.HasCode(err, mverr.CodeCLIServerNotRunning) {
			_, _ = fmt.Fprintf(out, "Server at %s is not running (connection refused)\n", addr)
			return nil
		}
		_, _ = fmt.Fprintf(out, "Server at %s: %s\n", addr, err)
		return nil
	}

	_, _ = fmt.Fprintf(out, "Server at %s: %s\n", addr, health.Status)

	var stats struct {
		TotalAssets int `json:"total_assets"`
		Images      int `json:"images"`
		Videos      int `json:"videos"`
	}
	if err := client.getJSON("/api/v1/stats", &stats); err == nil {
		_, _ = fmt.Fprintf(out, "Assets: %d (%d images, %d videos)\n", stats.TotalAssets, stats.Images, stats.Videos)
	}

	return nil
}
