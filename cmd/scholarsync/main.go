// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scholarsync CLI, which refreshes
// the publication, collaborator, and statistics data behind an academic
// website.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholarsync/internal/batch"
	"github.com/pdiddy/scholarsync/internal/cache"
	"github.com/pdiddy/scholarsync/internal/secrets"
	"github.com/pdiddy/scholarsync/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "scholarsync/0.1"
)

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Set

var rootCmd = &cobra.Command{
	Use:   "scholarsync",
	Short: "Refresh the publication data behind an academic website",
	Long: `scholarsync aggregates a researcher's publications from ORCID, enriches
them with OpenAlex metadata, and writes the JSON documents a static site
reads. It also derives the co-author list and patches headline citation
statistics into the site's pages.

Refresh commands write caches; list commands read the cache and fall back
to a live fetch when it is missing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Names())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./scholarsync.yaml or ~/.config/scholarsync/scholarsync.yaml)")
	pf.String("orcid-id", "", "ORCID iD of the researcher")
	pf.String("mailto", "", "contact email sent to OpenAlex (default: .secrets/openalex-email)")
	pf.String("data-dir", cache.DefaultDataDir, "directory holding publications.json and collaborators.json")
	pf.String("site-dir", ".", "site root containing index.html and publications.html")
	pf.String("memo-db", "", "SQLite file memoising OpenAlex lookups (empty disables)")
	pf.Duration("memo-max-age", 0, "how long memoised lookups stay valid (0 keeps them)")
	pf.Int("batch-size", batch.DefaultPolicy.Size, "concurrent OpenAlex lookups per batch")
	pf.Duration("batch-delay", batch.DefaultPolicy.Delay, "pause between lookup batches")
	pf.Duration("timeout", defaultTimeout, "HTTP request timeout")
	pf.String("highlight-author", "", "family name emphasised in listings")

	for key, flag := range map[string]string{
		"orcid_id":         "orcid-id",
		"mailto":           "mailto",
		"data_dir":         "data-dir",
		"site_dir":         "site-dir",
		"memo_db":          "memo-db",
		"memo_max_age":     "memo-max-age",
		"batch_size":       "batch-size",
		"batch_delay":      "batch-delay",
		"timeout":          "timeout",
		"highlight_author": "highlight-author",
	} {
		viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scholarsync")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scholarsync"))
		}
	}

	viper.SetEnvPrefix("SCHOLARSYNC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the typed configuration from flags, environment,
// config file, and secrets, in that order of precedence.
func pipelineConfig() (types.PipelineConfig, error) {
	cfg := types.PipelineConfig{
		Registry: types.RegistryConfig{
			ORCIDID: loadedSecrets.Default(secrets.ORCIDID, viper.GetString("orcid_id")),
		},
		Enrichment: types.EnrichmentConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("timeout"),
				UserAgent: defaultUserAgent,
			},
			Mailto:     loadedSecrets.Default(secrets.OpenAlexEmail, viper.GetString("mailto")),
			BatchSize:  viper.GetInt("batch_size"),
			BatchDelay: viper.GetDuration("batch_delay"),
			MemoDB:     viper.GetString("memo_db"),
			MemoMaxAge: viper.GetDuration("memo_max_age"),
		},
		Cache: types.CacheConfig{DataDir: viper.GetString("data_dir")},
		Site: types.SiteConfig{
			SiteDir:         viper.GetString("site_dir"),
			HighlightAuthor: viper.GetString("highlight_author"),
		},
	}

	if cfg.Registry.ORCIDID == "" {
		return cfg, fmt.Errorf("no ORCID iD configured: set orcid_id in scholarsync.yaml, SCHOLARSYNC_ORCID_ID, or --orcid-id")
	}
	if cfg.Enrichment.Timeout <= 0 {
		cfg.Enrichment.Timeout = defaultTimeout
	}
	if cfg.Enrichment.Mailto != "" {
		cfg.Enrichment.UserAgent = defaultUserAgent + " (mailto:" + cfg.Enrichment.Mailto + ")"
	}
	if cfg.Cache.DataDir == "" {
		cfg.Cache.DataDir = cache.DefaultDataDir
	}
	return cfg, nil
}

func httpClient(cfg types.PipelineConfig) *http.Client {
	return &http.Client{Timeout: cfg.Enrichment.Timeout}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
