// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package library

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

// BackupTo replaces dest with a full copy of the library's storage
// directory. The previous backup is removed first so dest always reflects a
// single consistent snapshot; partially-written files from an interrupted
// earlier run never linger. Network shares that lack atomic directory rename
// are the expected target, which is why this is remove-then-copy rather than
// copy-then-swap.
func (l *Library) BackupTo(ctx context.Context, dest string) error {
	src := l.store.Dir()
	if _, err := os.Stat(src); err != nil {
		return mverr.Wrap(err, mverr.CodeStoreBackupNotFound,
			"backup source missing", mverr.FieldPath(src))
	}

	if err := os.RemoveAll(dest); err != nil {
		return mverr.Wrap(err, mverr.CodeStoreBackupIO,
			"remove previous backup", mverr.FieldPath(dest))
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return mverr.Wrap(err, mverr.CodeStoreBackupIO,
			"create backup parent", mverr.FieldPath(dest))
	}
	if err := copyTree(ctx, src, dest); err != nil {
		return err
	}
	l.logger.Info("backup complete", "source", src, "destination", dest)
	return nil
}

func copyTree(ctx context.Context, src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return mverr.Wrap(err, mverr.CodeStoreBackupIO,
				"walk backup source", mverr.FieldPath(path))
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return mverr.Wrap(err, mverr.CodeStoreBackupIO,
				"resolve backup path", mverr.FieldPath(path))
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return mverr.Wrap(err, mverr.CodeStoreBackupIO,
					"create backup directory", mverr.FieldPath(target))
			}
			return nil
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return mverr.Wrap(err, mverr.CodeStoreBackupIO,
			"open source file", mverr.FieldPath(src))
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return mverr.Wrap(err, mverr.CodeStoreBackupIO,
			"create backup file", mverr.FieldPath(dest))
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return mverr.Wrap(err, mverr.CodeStoreBackupIO,
			"copy backup file", mverr.FieldPath(dest))
	}
	if err := out.Close(); err != nil {
		return mverr.Wrap(err, mverr.CodeStoreBackupIO,
			"close backup file", mverr.FieldPath(dest))
	}
	return nil
}
