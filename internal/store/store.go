// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store memoises aggregator work lookups in a SQLite database so
// repeated refreshes do not re-query works that were already resolved.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/scholarsync/internal/openalex"
)

// Store is a DOI-keyed memo of OpenAlex work records.
type Store struct {
	db *sql.DB

	// maxAge bounds how old a memoised record may be before Get ignores
	// it. Zero keeps records forever.
	maxAge time.Duration

	now func() time.Time
}

// Open opens or creates the memo database at path, creating its parent
// directory and schema as needed.
func Open(path string, maxAge time.Duration) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating memo directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening memo database: %w", err)
	}

	s := &Store{db: db, maxAge: maxAge, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS works (
			doi TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_works_fetched_at ON works(fetched_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Get returns the memoised work for doi. The bool is false when there is
// no record or the record is older than the store's max age.
func (s *Store) Get(ctx context.Context, doi string) (*openalex.Work, bool, error) {
	var payload string
	var fetchedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM works WHERE doi = ?`, key(doi),
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying memo for %s: %w", doi, err)
	}

	if s.maxAge > 0 && s.now().Sub(time.Unix(fetchedAt, 0)) > s.maxAge {
		return nil, false, nil
	}

	var w openalex.Work
	if err := json.Unmarshal([]byte(payload), &w); err != nil {
		return nil, false, fmt.Errorf("decoding memo for %s: %w", doi, err)
	}
	return &w, true, nil
}

// Put records w as the lookup result for doi, replacing any earlier one.
func (s *Store) Put(ctx context.Context, doi string, w *openalex.Work) error {
	payload, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encoding memo for %s: %w", doi, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO works (doi, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(doi) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		key(doi), string(payload), s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing memo for %s: %w", doi, err)
	}
	return nil
}

// Purge deletes records fetched more than olderThan ago and returns how
// many were removed. A zero olderThan removes everything.
func (s *Store) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan).Unix()
	if olderThan <= 0 {
		cutoff = s.now().Unix() + 1
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM works WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging memo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purging memo: %w", err)
	}
	return n, nil
}

// Count returns the number of memoised records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM works`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting memo: %w", err)
	}
	return n, nil
}

// key normalizes a DOI for lookup; DOIs are case-insensitive.
func key(doi string) string {
	return strings.ToLower(strings.TrimSpace(doi))
}
