// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

// Package sqlite implements store.AssetStore backed by SQLite with the
// sqlite-vec extension. Scalar and binary columns live in the assets
// table; embedding vectors live in a companion vec0 virtual table keyed
// by asset ID, so assets without a computed embedding simply have no
// vector row and can never rank in a similarity search.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mediavault-dev/mediavault/internal/store"
	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

func init() {
	sqlite_vec.Auto()
}

// DatabaseFile is the name of the SQLite database inside the store directory.
const DatabaseFile = "mediavault.db"

// Compile-time interface check.
var _ store.AssetStore = (*AssetStore)(nil)

// AssetStore implements store.AssetStore backed by SQLite with sqlite-vec.
type AssetStore struct {
	db         *sql.DB
	dir        string
	dimensions int
}

// Open creates (or opens) the asset database inside dir and initialises
// the assets, projects, and asset_vectors tables. Idempotent: repeat
// invocations open the existing relations unchanged.
func Open(dir string, dimensions int) (*AssetStore, error) {
	if dimensions <= 0 {
		return nil, mverr.Errorf(mverr.CodeStoreDatabaseFailure, "vector dimensions must be positive, got %d", dimensions)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, mverr.Errorf(mverr.CodeStoreDatabaseFailure, "creating store directory: %w", err)
	}

	dbPath := filepath.Join(dir, DatabaseFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, mverr.Errorf(mverr.CodeStoreDatabaseFailure, "opening asset db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, mverr.Errorf(mverr.CodeStoreDatabaseFailure, "pinging asset db: %w", err)
	}

	if err := migrate(db, dimensions); err != nil {
		_ = db.Close()
		return nil, mverr.Errorf(mverr.CodeStoreDatabaseFailure, "migrating asset tables: %w", err)
	}

	return &AssetStore{db: db, dir: dir, dimensions: dimensions}, nil
}

func migrate(db *sql.DB, dimensions int) error {
	// Every column is typed explicitly so an all-NULL binary column can
	// never be inferred to the wrong type on first append.
	const assetsDDL = `
CREATE TABLE IF NOT EXISTS assets (
	id                      TEXT PRIMARY KEY,
	filename                TEXT NOT NULL,
	media_type              TEXT NOT NULL,
	image                   BLOB,
	video                   BLOB,
	thumbnail               BLOB,
	embedding_state         TEXT NOT NULL DEFAULT 'unavailable',
	source                  TEXT NOT NULL,
	generation_prompt       TEXT,
	generation_model        TEXT,
	generation_time_seconds REAL,
	generation_cost_usd     REAL,
	width                   INTEGER,
	height                  INTEGER,
	duration_seconds        REAL,
	file_size_bytes         INTEGER NOT NULL,
	format                  TEXT NOT NULL DEFAULT '',
	content_type            TEXT,
	subjects                TEXT NOT NULL DEFAULT '[]',
	style_tags              TEXT NOT NULL DEFAULT '[]',
	quality_rating          INTEGER,
	quality_notes           TEXT,
	episode_assignments     TEXT NOT NULL DEFAULT '[]',
	use_count               INTEGER NOT NULL DEFAULT 0,
	created_at              TEXT NOT NULL,
	last_used_at            TEXT
);

CREATE INDEX IF NOT EXISTS idx_assets_media_type ON assets(media_type);
CREATE INDEX IF NOT EXISTS idx_assets_source ON assets(source);

CREATE TABLE IF NOT EXISTS projects (
	id                  TEXT PRIMARY KEY,
	project_name        TEXT NOT NULL,
	theme               TEXT NOT NULL DEFAULT '',
	asset_ids           TEXT NOT NULL DEFAULT '[]',
	created_at          TEXT NOT NULL,
	published_at        TEXT,
	engagement_likes    INTEGER NOT NULL DEFAULT 0,
	engagement_comments INTEGER NOT NULL DEFAULT 0,
	engagement_shares   INTEGER NOT NULL DEFAULT 0
)`
	if _, err := db.Exec(assetsDDL); err != nil {
		return fmt.Errorf("creating asset tables: %w", err)
	}

	vecDDL := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS asset_vectors USING vec0(id TEXT PRIMARY KEY, embedding float[%d])`,
		dimensions,
	)
	if _, err := db.Exec(vecDDL); err != nil {
		return fmt.Errorf("creating asset_vectors virtual table: %w", err)
	}

	return nil
}

// Dir returns the canonical store directory.
func (s *AssetStore) Dir() string { return s.dir }

// Dimensions returns the embedding dimensionality the store was opened with.
func (s *AssetStore) Dimensions() int { return s.dimensions }

// Close closes the underlying database connection.
func (s *AssetStore) Close() error {
	return s.db.Close()
}

// formatTime serialises a time.Time to RFC3339 with nanosecond precision.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime deserialises a time string stored in the database.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
