// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholarsync/internal/stats"
	"github.com/pdiddy/scholarsync/pkg/types"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show or update the headline citation statistics",
	Long: `Stats reads the researcher's OpenAlex author profile and rounds its
counters down (publications to 5, citations to 100, h-index to 5) for the
"60+ publications" style figures on the site.`,
}

var statsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print raw and rounded statistics",
	Long: `Show prints the author profile's raw and rounded counters. When the
profile cannot be fetched, the publication count and years active are
derived from the publication list instead (cache first, then live).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := pipelineConfig()
		if err != nil {
			return err
		}
		var count int
		pubs := func(ctx context.Context) ([]types.Publication, error) {
			list, err := loadPublications(ctx, cfg, false)
			count = len(list)
			return list, err
		}
		summary, author, err := stats.Resolve(cmd.Context(), openalexClient(cfg), cfg.Registry.ORCIDID, pubs, time.Now(), os.Stderr)
		if err != nil {
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}
		if author == nil {
			stats.DescribeList(count, summary, os.Stdout)
			return nil
		}
		stats.Describe(*author, summary, os.Stdout)
		return nil
	},
}

var statsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Patch the statistics into index.html and publications.html",
	Long: `Update fetches the author profile and rewrites the text of the
stat-publications, stat-citations, and stat-years elements in index.html and
the pub-stat-publications, pub-stat-citations, and pub-stat-hindex elements
in publications.html. Everything else in the pages is left untouched. A
failed profile fetch aborts the update so the citation figures are never
replaced with list-derived zeros.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := pipelineConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Fetching author data from OpenAlex for ORCID %s...\n", cfg.Registry.ORCIDID)
		author, err := openalexClient(cfg).Author(cmd.Context(), cfg.Registry.ORCIDID)
		if err != nil {
			return err
		}
		summary := stats.Compute(author, time.Now())
		stats.Describe(author, summary, os.Stdout)
		fmt.Println()

		return stats.Apply(summary, cfg.Site.SiteDir, os.Stdout)
	},
}

func init() {
	statsShowCmd.Flags().Bool("json", false, "output rounded statistics as JSON")

	statsCmd.AddCommand(statsShowCmd)
	statsCmd.AddCommand(statsUpdateCmd)

	rootCmd.AddCommand(statsCmd)
}
