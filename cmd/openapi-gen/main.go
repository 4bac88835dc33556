// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mediavault-dev/mediavault/internal/library"
	"github.com/mediavault-dev/mediavault/internal/server"
	"github.com/mediavault-dev/mediavault/internal/store"
	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

func main() {
	spec, err := generateSpec()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	outPath := "api/openapi/spec.json"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output dir: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, spec, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing spec: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OpenAPI spec written to %s\n", outPath)
}

// generateSpec creates a server with all routes registered and extracts the
// OpenAPI spec that huma generates from the Go type annotations.
func generateSpec() ([]byte, error) {
	srv, err := server.New(server.Config{
		ListenAddr: "127.0.0.1:0",
	})
	if err != nil {
		return nil, mverr.Wrap(err, mverr.CodeCLISetupFailure, "creating server")
	}

	// A no-op service stub so all routes are registered for schema
	// discovery. Handlers are never invoked during spec generation.
	srv.RegisterServices(&stubMedia{})

	return json.MarshalIndent(srv.API().OpenAPI(), "", "  ")
}

// stubMedia is a no-op MediaService for spec generation.

type stubMedia struct{}

func (s *stubMedia) AddImage(context.Context, string, string, library.IngestOptions) (string, error) {
	return "", nil
}

func (s *stubMedia) AddVideo(context.Context, string, string, library.IngestOptions) (string, error) {
	return "", nil
}

func (s *stubMedia) FindSimilar(context.Context, []byte, int, *store.MediaType) ([]*store.ScoredAsset, error) {
	return nil, nil
}

func (s *stubMedia) FindByTheme(context.Context, string, int, *int, *store.MediaType) ([]*store.ScoredAsset, error) {
	return nil, nil
}

func (s *stubMedia) FindBySubject(context.Context, string, *store.MediaType) ([]*store.MediaAsset, error) {
	return nil, nil
}

func (s *stubMedia) FindForEpisode(context.Context, int, bool) ([]*store.MediaAsset, error) {
	return nil, nil
}

func (s *stubMedia) GetAsset(context.Context, string) (*store.MediaAsset, error) { return nil, nil }

func (s *stubMedia) Content(context.Context, string) ([]byte, string, string, error) {
	return nil, "", "", nil
}

func (s *stubMedia) ListAssets(context.Context, store.ListFilter, store.ListOpts) ([]*store.MediaAsset, int, error) {
	return nil, 0, nil
}

func (s *stubMedia) RateAsset(context.Context, string, int, *string) error { return nil }

func (s *stubMedia) AssignToEpisode(context.Context, string, int) error { return nil }

func (s *stubMedia) Stats(context.Context) (*store.Stats, error) { return nil, nil }

func (s *stubMedia) BackupTo(context.Context, string) error { return nil }
