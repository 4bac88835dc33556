// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/mediavault-dev/mediavault/internal/config"
	"github.com/mediavault-dev/mediavault/internal/library"
	"github.com/mediavault-dev/mediavault/internal/store/sqlite"
	"github.com/mediavault-dev/mediavault/internal/vision"
	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

// loadConfig resolves the effective configuration from the global viper
// state prepared by initViper.
func loadConfig() (*config.Config, error) {
	return config.FromViper(viper.GetViper())
}

// newLogger builds the process logger, honoring the verbose flag.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openLibrary wires the full media stack: sqlite store, CLIP client, ffmpeg
// extractor, and the library service on top. The caller owns Close.
func openLibrary(cfg *config.Config) (*library.Library, error) {
	st, err := sqlite.Open(cfg.Storage.Dir, cfg.Vision.Dimensions)
	if err != nil {
		return nil, mverr.Wrap(err, mverr.CodeCLISetupFailure, "opening asset store", mverr.FieldPath(cfg.Storage.Dir))
	}

	embedder := vision.NewCLIPClient(cfg.Vision.Endpoint, cfg.Vision.Dimensions)
	frames := vision.NewFFmpegExtractor(cfg.Vision.FFmpegBin, cfg.Vision.FFprobeBin)

	return library.New(st, embedder, frames, library.WithLogger(newLogger())), nil
}
