// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediavault-dev/mediavault/internal/config"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8791", cfg.Server.Listen)
	assert.Equal(t, "mediavault-data", cfg.Storage.Dir)
	assert.Equal(t, "http://127.0.0.1:8766", cfg.Vision.Endpoint)
	assert.Equal(t, 512, cfg.Vision.Dimensions)
	assert.Equal(t, "ffmpeg", cfg.Vision.FFmpegBin)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "mediavault.yaml")

	content := `
server:
  listen: "0.0.0.0:9999"
storage:
  dir: "/srv/media"
vision:
  dimensions: 768
`
	err := os.WriteFile(cfgPath, []byte(content), 0o644)
	require.NoError(t, err)

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9999", cfg.Server.Listen)
	assert.Equal(t, "/srv/media", cfg.Storage.Dir)
	assert.Equal(t, 768, cfg.Vision.Dimensions)
	// Unset keys keep their defaults.
	assert.Equal(t, "http://127.0.0.1:8766", cfg.Vision.Endpoint)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MEDIAVAULT_SERVER_LISTEN", "10.0.0.1:8080")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:8080", cfg.Server.Listen)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_ValidationCalledAtLoadTime(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "mediavault.yaml")

	content := `
server:
  listen: "not-an-address"
`
	err := os.WriteFile(cfgPath, []byte(content), 0o644)
	require.NoError(t, err)

	_, err = config.Load(cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.listen")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &config.Config{
		Server:  config.ServerConfig{Listen: ""},
		Storage: config.StorageConfig{Dir: ""},
		Vision:  config.VisionConfig{Endpoint: "ftp://nope", Dimensions: 0},
	}

	errs := cfg.Validate()
	require.Len(t, errs, 4)
}

func TestValidate_PortRange(t *testing.T) {
	cfg := &config.Config{
		Server:  config.ServerConfig{Listen: "127.0.0.1:99999"},
		Storage: config.StorageConfig{Dir: "data"},
		Vision:  config.VisionConfig{Endpoint: "http://localhost:8766", Dimensions: 512},
	}

	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "between 1 and 65535")
}

func TestValidate_EmptyHostIsAllowed(t *testing.T) {
	cfg := &config.Config{
		Server:  config.ServerConfig{Listen: ":8791"},
		Storage: config.StorageConfig{Dir: "data"},
		Vision:  config.VisionConfig{Endpoint: "http://localhost:8766", Dimensions: 512},
	}

	assert.Empty(t, cfg.Validate())
}
