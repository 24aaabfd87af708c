// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholarsync/internal/cache"
	"github.com/pdiddy/scholarsync/internal/collaborators"
	"github.com/pdiddy/scholarsync/internal/openalex"
	"github.com/pdiddy/scholarsync/pkg/types"
)

var collaboratorsCmd = &cobra.Command{
	Use:   "collaborators",
	Short: "Refresh or list the researcher's co-authors",
	Long: `Collaborators derives the co-author list from every OpenAlex work linked
to the researcher's ORCID iD, counting shared papers per co-author.`,
}

var collaboratorsRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild collaborators.json from OpenAlex",
	Long: `Refresh pages through the researcher's OpenAlex works, extracts every
co-author other than the researcher, and writes the list, sorted by shared
paper count, to the collaborators cache.`,
	RunE: runCollaboratorsRefresh,
}

func runCollaboratorsRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	pageDelay, _ := cmd.Flags().GetDuration("page-delay")

	list, total, err := collaborators.Fetch(cmd.Context(), openalexClient(cfg), cfg.Registry.ORCIDID, pageDelay, os.Stdout)
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.Cache.DataDir, cache.CollaboratorsFile)
	doc := &types.CollaboratorsCache{
		ORCIDID:       cfg.Registry.ORCIDID,
		TotalWorks:    total,
		Collaborators: list,
	}
	if err := cache.WriteCollaborators(path, doc, time.Now()); err != nil {
		return err
	}

	fmt.Printf("\nWrote %d collaborators to %s\n", len(list), path)
	fmt.Printf("Last updated: %s\n", doc.LastUpdated)
	fmt.Println("\nTop 10 collaborators:")
	collaborators.FormatList(collaborators.Top(list, 10), os.Stdout)
	return nil
}

var collaboratorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the top collaborators",
	Long: `List reads the collaborators cache, falling back to a live OpenAlex
fetch when the cache is missing or empty, and prints the top entries.`,
	RunE: runCollaboratorsList,
}

func runCollaboratorsList(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	top, _ := cmd.Flags().GetInt("top")
	liveOnly, _ := cmd.Flags().GetBool("live")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	path := filepath.Join(cfg.Cache.DataDir, cache.CollaboratorsFile)
	loader := &cache.Loader[[]types.Collaborator]{
		Live: func(ctx context.Context) ([]types.Collaborator, error) {
			list, _, err := collaborators.Fetch(ctx, openalexClient(cfg), cfg.Registry.ORCIDID, openalex.DefaultPageDelay, os.Stderr)
			return list, err
		},
		Empty: func(c []types.Collaborator) bool { return len(c) == 0 },
		Log:   os.Stderr,
	}
	if !liveOnly {
		loader.Cache = func() ([]types.Collaborator, error) {
			doc, err := cache.ReadCollaborators(path)
			if err != nil {
				return nil, err
			}
			return doc.Collaborators, nil
		}
	}

	res, err := loader.Load(cmd.Context())
	if err != nil {
		fmt.Fprintln(os.Stderr, cache.CollaboratorsErrorMessage)
		return err
	}

	list := collaborators.Top(res.Value, top)
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	collaborators.FormatList(list, os.Stdout)
	return nil
}

func init() {
	collaboratorsRefreshCmd.Flags().Duration("page-delay", openalex.DefaultPageDelay, "pause between OpenAlex result pages")

	collaboratorsListCmd.Flags().Int("top", collaborators.DefaultTop, "number of collaborators to show (-1 for all)")
	collaboratorsListCmd.Flags().Bool("live", false, "skip the cache and fetch live")
	collaboratorsListCmd.Flags().Bool("json", false, "output as JSON")

	collaboratorsCmd.AddCommand(collaboratorsRefreshCmd)
	collaboratorsCmd.AddCommand(collaboratorsListCmd)

	rootCmd.AddCommand(collaboratorsCmd)
}
