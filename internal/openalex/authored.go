// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/scholarsync/internal/httputil"
	"github.com/pdiddy/scholarsync/pkg/types"
)

const worksPerPage = 200

// DefaultPageDelay is the pause between cursor pages.
const DefaultPageDelay = 500 * time.Millisecond

type worksPage struct {
	Meta struct {
		Count      int    `json:"count"`
		NextCursor string `json:"next_cursor"`
	} `json:"meta"`
	Results []Work `json:"results"`
}

// WorksByORCID pages through every OpenAlex work attributed to the ORCID
// author using cursor pagination. Any failed page aborts the listing.
// Progress lines go to w when it is non-nil.
func (c *Client) WorksByORCID(ctx context.Context, orcidID string, pageDelay time.Duration, w io.Writer) ([]Work, error) {
	orcidID = strings.TrimSpace(orcidID)
	if orcidID == "" {
		return nil, fmt.Errorf("%w: empty ORCID iD", httputil.ErrNotFound)
	}
	if w == nil {
		w = io.Discard
	}

	var all []Work
	cursor := "*"
	for {
		params := url.Values{
			"filter":   {"author.orcid:" + orcidID},
			"per_page": {fmt.Sprintf("%d", worksPerPage)},
			"cursor":   {cursor},
		}
		body, err := c.get(ctx, "/works", params)
		if err != nil {
			return nil, fmt.Errorf("OpenAlex works for %s: %w", orcidID, err)
		}

		var page worksPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("%w: parsing OpenAlex works page: %v", httputil.ErrParse, err)
		}
		all = append(all, page.Results...)
		fmt.Fprintf(w, "  fetched %d works so far...\n", len(all))

		if page.Meta.NextCursor == "" || len(page.Results) == 0 {
			return all, nil
		}
		cursor = page.Meta.NextCursor

		if pageDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(pageDelay):
			}
		}
	}
}

type authorResponse struct {
	WorksCount   int `json:"works_count"`
	CitedByCount int `json:"cited_by_count"`
	SummaryStats struct {
		HIndex int `json:"h_index"`
	} `json:"summary_stats"`
	CountsByYear []types.YearCount `json:"counts_by_year"`
}

// Author fetches the OpenAlex author profile for an ORCID iD.
func (c *Client) Author(ctx context.Context, orcidID string) (types.AuthorStats, error) {
	orcidID = strings.TrimSpace(orcidID)
	if orcidID == "" {
		return types.AuthorStats{}, fmt.Errorf("%w: empty ORCID iD", httputil.ErrNotFound)
	}

	body, err := c.get(ctx, "/authors/"+orcidResolver+url.PathEscape(orcidID), nil)
	if err != nil {
		return types.AuthorStats{}, fmt.Errorf("OpenAlex author %s: %w", orcidID, err)
	}

	var ar authorResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return types.AuthorStats{}, fmt.Errorf("%w: parsing OpenAlex author: %v", httputil.ErrParse, err)
	}
	return types.AuthorStats{
		WorksCount:   ar.WorksCount,
		CitedByCount: ar.CitedByCount,
		HIndex:       ar.SummaryStats.HIndex,
		CountsByYear: ar.CountsByYear,
	}, nil
}
