// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collaborators derives the researcher's co-author list from the
// aggregator's authorship records.
package collaborators

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/scholarsync/internal/openalex"
	"github.com/pdiddy/scholarsync/pkg/types"
)

// DefaultTop is how many collaborators the site shows.
const DefaultTop = 6

// Extract counts co-authors across works. Authors whose ORCID contains
// orcidID are the researcher and are excluded, along with authorships
// missing an id or a name. The first institution of an authorship is the
// collaborator's institute; a later work fills it in when the first seen
// had none. The result is sorted by paper count descending, then name.
func Extract(works []openalex.Work, orcidID string) []types.Collaborator {
	primary := PrimaryIDs(works, orcidID)

	byID := make(map[string]*types.Collaborator)
	var order []string
	for _, w := range works {
		for _, a := range w.Authorships {
			id, name := a.Author.ID, a.Author.DisplayName
			if id == "" || name == "" || primary[id] {
				continue
			}

			institute := ""
			if len(a.Institutions) > 0 {
				institute = a.Institutions[0].DisplayName
			}

			if c, ok := byID[id]; ok {
				c.PapersCount++
				if c.Institute == "" && institute != "" {
					c.Institute = institute
				}
				continue
			}
			byID[id] = &types.Collaborator{
				Name:        name,
				Institute:   institute,
				PapersCount: 1,
				OpenAlexID:  id,
			}
			order = append(order, id)
		}
	}

	out := make([]types.Collaborator, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PapersCount != out[j].PapersCount {
			return out[i].PapersCount > out[j].PapersCount
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// PrimaryIDs returns the aggregator author ids linked to orcidID.
func PrimaryIDs(works []openalex.Work, orcidID string) map[string]bool {
	ids := make(map[string]bool)
	if orcidID == "" {
		return ids
	}
	for _, w := range works {
		for _, a := range w.Authorships {
			if a.Author.ORCID != "" && strings.Contains(a.Author.ORCID, orcidID) {
				ids[a.Author.ID] = true
			}
		}
	}
	return ids
}

// Top returns at most n collaborators from the head of list.
func Top(list []types.Collaborator, n int) []types.Collaborator {
	if n < 0 || n >= len(list) {
		return list
	}
	return list[:n]
}

// WorksSource lists the aggregator works of an ORCID author.
// *openalex.Client implements it.
type WorksSource interface {
	WorksByORCID(ctx context.Context, orcidID string, pageDelay time.Duration, w io.Writer) ([]openalex.Work, error)
}

// Fetch lists the author's works and extracts collaborators. It returns
// the number of works seen alongside the collaborator list. No works is
// an error since the cache would otherwise be overwritten with nothing.
func Fetch(ctx context.Context, src WorksSource, orcidID string, pageDelay time.Duration, w io.Writer) ([]types.Collaborator, int, error) {
	if w == nil {
		w = io.Discard
	}
	fmt.Fprintf(w, "Fetching works from OpenAlex for ORCID %s...\n", orcidID)
	works, err := src.WorksByORCID(ctx, orcidID, pageDelay, w)
	if err != nil {
		return nil, 0, err
	}
	fmt.Fprintf(w, "Total works fetched: %d\n", len(works))
	if len(works) == 0 {
		return nil, 0, fmt.Errorf("no works found on OpenAlex for ORCID %s", orcidID)
	}

	list := Extract(works, orcidID)
	fmt.Fprintf(w, "Found %d unique collaborators\n", len(list))
	return list, len(works), nil
}

// FormatList writes a numbered "Name (Institute) - N papers" listing.
func FormatList(list []types.Collaborator, w io.Writer) {
	for i, c := range list {
		inst := c.Institute
		if inst == "" {
			inst = "Unknown"
		}
		fmt.Fprintf(w, "  %d. %s (%s) - %d papers\n", i+1, c.Name, inst, c.PapersCount)
	}
}
