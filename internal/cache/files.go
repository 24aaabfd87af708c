// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache reads and writes the JSON documents the static site loads
// (publications and collaborators), and provides the cache-then-live
// fallback loader used when a cache document is missing or unusable.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/scholarsync/internal/httputil"
	"github.com/pdiddy/scholarsync/pkg/types"
)

// Document names inside the data directory. DefaultDataDir is relative to
// the site root.
const (
	DefaultDataDir    = "assets/data"
	PublicationsFile  = "publications.json"
	CollaboratorsFile = "collaborators.json"
)

// ErrEmpty reports a cache document that parsed but holds no entries.
var ErrEmpty = errors.New("cache document is empty")

// ReadPublications loads a publications document. A missing file wraps
// httputil.ErrNotFound, malformed JSON wraps httputil.ErrParse, and a
// document with no publications wraps ErrEmpty.
func ReadPublications(path string) (*types.PublicationsCache, error) {
	var doc types.PublicationsCache
	if err := readJSON(path, &doc); err != nil {
		return nil, err
	}
	if len(doc.Publications) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return &doc, nil
}

// ReadCollaborators loads a collaborators document with the same error
// contract as ReadPublications.
func ReadCollaborators(path string) (*types.CollaboratorsCache, error) {
	var doc types.CollaboratorsCache
	if err := readJSON(path, &doc); err != nil {
		return nil, err
	}
	if len(doc.Collaborators) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return &doc, nil
}

// WritePublications stamps doc.LastUpdated with now and writes it to path.
func WritePublications(path string, doc *types.PublicationsCache, now time.Time) error {
	doc.LastUpdated = Timestamp(now)
	if doc.Publications == nil {
		doc.Publications = []types.Publication{}
	}
	return writeJSON(path, doc)
}

// WriteCollaborators stamps doc.LastUpdated with now and writes it to path.
func WriteCollaborators(path string, doc *types.CollaboratorsCache, now time.Time) error {
	doc.LastUpdated = Timestamp(now)
	if doc.Collaborators == nil {
		doc.Collaborators = []types.Collaborator{}
	}
	return writeJSON(path, doc)
}

// Timestamp formats t as UTC ISO-8601 with millisecond precision, the form
// the site's scripts expect in lastUpdated.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", httputil.ErrNotFound, path)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", httputil.ErrParse, path, err)
	}
	return nil
}

// writeJSON writes v as indented JSON through a temp file and rename so
// readers never see a partial document.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".cache-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
