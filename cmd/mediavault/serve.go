// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mediavault-dev/mediavault/internal/server"
	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MediaVault API server",
		Long:  "Load configuration, open the asset store, and serve the HTTP API until interrupted.",
		RunE:  runServe,
	}

	cmd.Flags().String("listen", "", "override listen address (host:port)")
	_ = viper.BindPFlag("server.listen", cmd.Flags().Lookup("listen"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lib, err := openLibrary(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = lib.Close() }()

	srv, err := server.New(server.Config{ListenAddr: cfg.Server.Listen})
	if err != nil {
		return mverr.Wrap(err, mverr.CodeServerStartFailure, "creating server")
	}
	srv.RegisterServices(lib)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger()
	logger.Info("mediavault serving", "listen", cfg.Server.Listen, "storage", cfg.Storage.Dir)

	if err := srv.Start(ctx); err != nil {
		return mverr.Wrap(err, mverr.CodeServerStartFailure, "running server")
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "mediavault stopped")
	return nil
}
