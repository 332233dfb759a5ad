// Package state persists build history and per-artifact input signatures in
// SQLite, backing incremental builds and the history command.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// BuildRecord is one persisted build run.
type BuildRecord struct {
	ID               string
	StartedAt        time.Time
	Duration         time.Duration
	Status           string
	ArtifactsWritten int
	ArtifactsSkipped int
	Warnings         int
	Manifest         []byte
}

// Store is a SQLite-backed build-state store.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (and creates if needed) the state database at dbPath. Use
// ":memory:" for an in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		status TEXT NOT NULL,
		artifacts_written INTEGER NOT NULL,
		artifacts_skipped INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		manifest BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
	CREATE TABLE IF NOT EXISTS artifact_signatures (
		dashboard TEXT NOT NULL,
		language TEXT NOT NULL,
		signature TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (dashboard, language)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordBuild appends a build record.
func (s *Store) RecordBuild(ctx context.Context, rec BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (id, started_at, duration_ms, status, artifacts_written, artifacts_skipped, warnings, manifest)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StartedAt.Unix(), rec.Duration.Milliseconds(), rec.Status,
		rec.ArtifactsWritten, rec.ArtifactsSkipped, rec.Warnings, rec.Manifest,
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// RecentBuilds returns the most recent builds, newest first.
func (s *Store) RecentBuilds(ctx context.Context, limit int) ([]BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, status, artifacts_written, artifacts_skipped, warnings, manifest
		 FROM builds ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var records []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		var startedUnix, durationMS int64
		if err := rows.Scan(&rec.ID, &startedUnix, &durationMS, &rec.Status,
			&rec.ArtifactsWritten, &rec.ArtifactsSkipped, &rec.Warnings, &rec.Manifest); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		rec.StartedAt = time.Unix(startedUnix, 0)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}

// ArtifactSignature returns the stored input signature for a dashboard and
// language, or "" when none has been recorded.
func (s *Store) ArtifactSignature(ctx context.Context, dashboard, language string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sig string
	err := s.db.QueryRowContext(ctx,
		"SELECT signature FROM artifact_signatures WHERE dashboard = ? AND language = ?",
		dashboard, language).Scan(&sig)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query artifact signature: %w", err)
	}
	return sig, nil
}

// SetArtifactSignature records the input signature of a freshly written
// artifact.
func (s *Store) SetArtifactSignature(ctx context.Context, dashboard, language, signature string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO artifact_signatures (dashboard, language, signature, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(dashboard, language) DO UPDATE SET signature = excluded.signature, updated_at = excluded.updated_at`,
		dashboard, language, signature, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("upsert artifact signature: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
