// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholarsync/internal/batch"
	"github.com/pdiddy/scholarsync/internal/cache"
	"github.com/pdiddy/scholarsync/internal/citation"
	"github.com/pdiddy/scholarsync/internal/openalex"
	"github.com/pdiddy/scholarsync/internal/orcid"
	"github.com/pdiddy/scholarsync/internal/publications"
	"github.com/pdiddy/scholarsync/internal/stats"
	"github.com/pdiddy/scholarsync/internal/store"
	"github.com/pdiddy/scholarsync/pkg/types"
)

var publicationsCmd = &cobra.Command{
	Use:   "publications",
	Short: "Refresh, list, or export the publication list",
	Long: `Publications manages the publication list built from the researcher's
ORCID record and enriched with OpenAlex metadata (authors, volume, issue,
pages, venue).`,
}

// --- refresh subcommand ---

var publicationsRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild publications.json from ORCID and OpenAlex",
	Long: `Refresh fetches the ORCID works list, drops works without a usable year,
enriches each remaining work from OpenAlex in paced batches, and writes the
result to the publications cache. An ORCID failure aborts the refresh;
per-work enrichment failures are reported as warnings.`,
	RunE: runPublicationsRefresh,
}

func runPublicationsRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}

	p, cleanup, err := newPipeline(cfg, offlinePolicy(cfg), os.Stdout)
	if err != nil {
		return err
	}
	defer cleanup()

	pubs, err := p.Run(cmd.Context(), cfg.Registry.ORCIDID)
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.Cache.DataDir, cache.PublicationsFile)
	doc := &types.PublicationsCache{ORCIDID: cfg.Registry.ORCIDID, Publications: pubs}
	if err := cache.WritePublications(path, doc, time.Now()); err != nil {
		return err
	}

	fmt.Printf("\nWrote %d publications to %s\n", len(pubs), path)
	fmt.Printf("Last updated: %s\n", doc.LastUpdated)
	return nil
}

// --- list subcommand ---

var publicationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print publications grouped by year",
	Long: `List reads the publications cache and prints the publications grouped
by year, newest first, numbered from the total count down to 1. When the
cache is missing, unreadable, or empty, the list is fetched live instead.
Use --live to skip the cache.`,
	RunE: runPublicationsList,
}

func runPublicationsList(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	liveOnly, _ := cmd.Flags().GetBool("live")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	pubs, err := loadPublications(cmd.Context(), cfg, liveOnly)
	if err != nil {
		return err
	}

	g := publications.Group(pubs)
	if jsonOutput {
		return publications.FormatJSON(g, os.Stdout)
	}
	publications.FormatTable(g, cfg.Site.HighlightAuthor, os.Stdout)
	stats.DescribeList(g.Len(), stats.FromPublications(g.Flatten(), time.Now()), os.Stdout)
	return nil
}

// --- export subcommand ---

var publicationsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export publications as BibTeX, CSL-YAML, or JSON",
	Long: `Export writes every publication in display order in the chosen format:
bibtex (one @article entry per publication), csl (a CSL-YAML list for Pandoc
and reference managers), or json (the year-grouped list with numbers, venue
lines, and BibTeX). Data is loaded the same way as list.`,
	RunE: runPublicationsExport,
}

func runPublicationsExport(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	liveOnly, _ := cmd.Flags().GetBool("live")
	outPath, _ := cmd.Flags().GetString("output")

	switch format {
	case "bibtex", "csl", "json":
	default:
		return fmt.Errorf("unsupported format %q: use bibtex, csl, or json", format)
	}

	pubs, err := loadPublications(cmd.Context(), cfg, liveOnly)
	if err != nil {
		return err
	}
	g := publications.Group(pubs)

	if outPath == "" {
		return writeExport(os.Stdout, format, g)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	if err := writeExport(f, format, g); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", outPath, err)
	}
	fmt.Fprintf(os.Stderr, "Exported %d publications to %s\n", g.Len(), outPath)
	return nil
}

// writeExport writes g to w in the named format.
func writeExport(w io.Writer, format string, g publications.Grouping) error {
	switch format {
	case "bibtex":
		for i, p := range g.Flatten() {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, citation.BibTeX(p))
		}
	case "csl":
		return citation.WriteCSL(w, g.Flatten())
	case "json":
		return publications.FormatJSON(g, w)
	}
	return nil
}

// --- shared helpers ---

// loadPublications runs the cache-then-live loader. On failure it prints
// the reader-facing apology to stderr and returns the underlying error.
func loadPublications(ctx context.Context, cfg types.PipelineConfig, liveOnly bool) ([]types.Publication, error) {
	path := filepath.Join(cfg.Cache.DataDir, cache.PublicationsFile)
	loader := &cache.Loader[[]types.Publication]{
		Live: func(ctx context.Context) ([]types.Publication, error) {
			p, cleanup, err := newPipeline(cfg, batch.LivePolicy, os.Stderr)
			if err != nil {
				return nil, err
			}
			defer cleanup()
			return p.Run(ctx, cfg.Registry.ORCIDID)
		},
		Empty: func(p []types.Publication) bool { return len(p) == 0 },
		Log:   os.Stderr,
	}
	if !liveOnly {
		loader.Cache = func() ([]types.Publication, error) {
			doc, err := cache.ReadPublications(path)
			if err != nil {
				return nil, err
			}
			return doc.Publications, nil
		}
	}

	res, err := loader.Load(ctx)
	if loader.State() == cache.StateError {
		fmt.Fprintln(os.Stderr, cache.PublicationsErrorMessage)
	}
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// offlinePolicy is the batch policy for refresh commands, taken from
// configuration.
func offlinePolicy(cfg types.PipelineConfig) batch.Policy {
	return batch.Policy{
		Size:  cfg.Enrichment.BatchSize,
		Delay: cfg.Enrichment.BatchDelay,
	}
}

// newPipeline wires the ORCID client, the OpenAlex enricher, and the
// optional lookup memo. The returned cleanup closes the memo.
func newPipeline(cfg types.PipelineConfig, policy batch.Policy, log io.Writer) (*publications.Pipeline, func(), error) {
	client := httpClient(cfg)

	enricher := &openalex.Enricher{
		Lookup: openalexClient(cfg),
		Log:    log,
	}
	cleanup := func() {}
	if cfg.Enrichment.MemoDB != "" {
		memo, err := store.Open(cfg.Enrichment.MemoDB, cfg.Enrichment.MemoMaxAge)
		if err != nil {
			return nil, nil, err
		}
		enricher.Store = memo
		cleanup = func() { memo.Close() }
	}

	return &publications.Pipeline{
		Registry: &orcid.Client{HTTP: client, UserAgent: cfg.Enrichment.UserAgent},
		Enricher: enricher,
		Policy:   policy,
		Log:      log,
	}, cleanup, nil
}

func openalexClient(cfg types.PipelineConfig) *openalex.Client {
	return &openalex.Client{
		HTTP:       httpClient(cfg),
		Mailto:     cfg.Enrichment.Mailto,
		UserAgent:  cfg.Enrichment.UserAgent,
		MaxRetries: cfg.Enrichment.MaxRetries,
	}
}

func init() {
	publicationsListCmd.Flags().Bool("json", false, "output the grouped list as JSON")
	publicationsListCmd.Flags().Bool("live", false, "skip the cache and fetch live")

	publicationsExportCmd.Flags().String("format", "bibtex", "export format: bibtex, csl, or json")
	publicationsExportCmd.Flags().Bool("live", false, "skip the cache and fetch live")
	publicationsExportCmd.Flags().String("output", "", "write to this file instead of stdout")

	publicationsCmd.AddCommand(publicationsRefreshCmd)
	publicationsCmd.AddCommand(publicationsListCmd)
	publicationsCmd.AddCommand(publicationsExportCmd)

	rootCmd.AddCommand(publicationsCmd)
}
