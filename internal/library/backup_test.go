// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package library_test

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediavault-dev/mediavault/internal/library"
	"github.com/mediavault-dev/mediavault/internal/store/sqlite"
)

func TestBackupToCopiesStorageDirectory(t *testing.T) {
	lib, storeDir := newTestLibrary(t, &fakeFrames{})
	ctx := context.Background()

	_, err := lib.AddImage(ctx, writeFile(t, t.TempDir(), "a.png", makePNG(t, 4, 4, color.White)), "test", library.IngestOptions{})
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "backups", "media")
	require.NoError(t, lib.BackupTo(ctx, dest))

	original, err := os.ReadFile(filepath.Join(storeDir, sqlite.DatabaseFile))
	require.NoError(t, err)
	copied, err := os.ReadFile(filepath.Join(dest, sqlite.DatabaseFile))
	require.NoError(t, err)
	assert.Equal(t, original, copied)
}

func TestBackupToReplacesPreviousBackup(t *testing.T) {
	lib, _ := newTestLibrary(t, &fakeFrames{})
	ctx := context.Background()

	dest := filepath.Join(t.TempDir(), "backup")
	stale := filepath.Join(dest, "leftover.tmp")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("stale partial file"), 0o644))

	require.NoError(t, lib.BackupTo(ctx, dest))

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dest, sqlite.DatabaseFile))
	assert.NoError(t, err)
}
