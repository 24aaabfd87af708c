// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholarsync/internal/cache"
	"github.com/pdiddy/scholarsync/internal/publications"
	"github.com/pdiddy/scholarsync/internal/secrets"
	"github.com/pdiddy/scholarsync/pkg/types"
)

func withConfig(t *testing.T, values map[string]any, s secrets.Set) {
	t.Helper()
	for k, v := range values {
		viper.Set(k, v)
	}
	old := loadedSecrets
	loadedSecrets = s
	t.Cleanup(func() {
		for k := range values {
			viper.Set(k, nil)
		}
		loadedSecrets = old
	})
}

func TestPipelineConfig(t *testing.T) {
	withConfig(t, map[string]any{
		"orcid_id":    "0000-0002-2537-5082",
		"batch_size":  3,
		"batch_delay": "250ms",
		"data_dir":    "site/data",
	}, secrets.Set{secrets.OpenAlexEmail: "lab@example.org"})

	cfg, err := pipelineConfig()
	require.NoError(t, err)
	assert.Equal(t, "0000-0002-2537-5082", cfg.Registry.ORCIDID)
	assert.Equal(t, 3, cfg.Enrichment.BatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Enrichment.BatchDelay)
	assert.Equal(t, "site/data", cfg.Cache.DataDir)
	assert.Equal(t, "lab@example.org", cfg.Enrichment.Mailto, "mailto falls back to the secret")
	assert.Contains(t, cfg.Enrichment.UserAgent, "mailto:lab@example.org")
	assert.Positive(t, cfg.Enrichment.Timeout)

	policy := offlinePolicy(cfg)
	assert.Equal(t, 3, policy.Size)
	assert.Equal(t, 250*time.Millisecond, policy.Delay)
}

func TestPipelineConfig_ExplicitMailtoWins(t *testing.T) {
	withConfig(t, map[string]any{
		"orcid_id": "x",
		"mailto":   "flag@example.org",
	}, secrets.Set{secrets.OpenAlexEmail: "secret@example.org"})

	cfg, err := pipelineConfig()
	require.NoError(t, err)
	assert.Equal(t, "flag@example.org", cfg.Enrichment.Mailto)
}

func TestPipelineConfig_RequiresORCID(t *testing.T) {
	withConfig(t, map[string]any{"orcid_id": ""}, secrets.Set{})

	_, err := pipelineConfig()
	assert.Error(t, err)
}

func withExportFlags(t *testing.T, format, output string) {
	t.Helper()
	flags := publicationsExportCmd.Flags()
	require.NoError(t, flags.Set("format", format))
	require.NoError(t, flags.Set("output", output))
	publicationsExportCmd.SetContext(context.Background())
	t.Cleanup(func() {
		flags.Set("format", "bibtex")
		flags.Set("output", "")
	})
}

func TestPublicationsExport_WritesFile(t *testing.T) {
	dir := t.TempDir()
	doc := &types.PublicationsCache{Publications: []types.Publication{
		{Title: "Defects", Year: 2020, Authors: []string{"Smith, A."}, DOI: types.StringPtr("10.1/a")},
	}}
	require.NoError(t, cache.WritePublications(filepath.Join(dir, cache.PublicationsFile), doc, time.Now()))
	withConfig(t, map[string]any{"orcid_id": "x", "data_dir": dir}, secrets.Set{})

	out := filepath.Join(dir, "refs.bib")
	withExportFlags(t, "bibtex", out)
	require.NoError(t, runPublicationsExport(publicationsExportCmd, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "@article{smith2020,")
	assert.Contains(t, string(data), "doi = {10.1/a}")
}

func TestPublicationsExport_UnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	doc := &types.PublicationsCache{Publications: []types.Publication{{Title: "A", Year: 2020}}}
	require.NoError(t, cache.WritePublications(filepath.Join(dir, cache.PublicationsFile), doc, time.Now()))
	withConfig(t, map[string]any{"orcid_id": "x", "data_dir": dir}, secrets.Set{})

	withExportFlags(t, "bibtex", filepath.Join(dir, "missing", "refs.bib"))
	err := runPublicationsExport(publicationsExportCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteExport_PropagatesWriteErrors(t *testing.T) {
	g := publications.Group([]types.Publication{{Title: "A", Year: 2020}})
	for _, format := range []string{"csl", "json"} {
		if err := writeExport(failingWriter{}, format, g); err == nil {
			t.Errorf("writeExport(%s) to a failing writer returned nil", format)
		}
	}
}
