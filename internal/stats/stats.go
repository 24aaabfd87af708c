// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stats turns an author profile into the rounded headline numbers
// shown on the site ("60+ publications") and writes them into the pages.
package stats

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pdiddy/scholarsync/internal/pagepatch"
	"github.com/pdiddy/scholarsync/pkg/types"
)

// Rounding steps for the headline numbers.
const (
	PublicationsStep = 5
	CitationsStep    = 100
	HIndexStep       = 5
)

// Page files patched by Apply, relative to the site root.
const (
	IndexPage        = "index.html"
	PublicationsPage = "publications.html"
)

// Summary holds rounded headline numbers. Years is nil when the profile
// has no year with works.
type Summary struct {
	Publications int  `json:"publications"`
	Citations    int  `json:"citations"`
	HIndex       int  `json:"hIndex"`
	Years        *int `json:"years"`
}

// RoundDown rounds n down to a multiple of step. Non-positive steps
// return n unchanged.
func RoundDown(n, step int) int {
	if step <= 0 {
		return n
	}
	if n < 0 {
		return -RoundDown(-n+step-1, step)
	}
	return n / step * step
}

// EarliestYear returns the earliest year with at least one work.
func EarliestYear(counts []types.YearCount) (int, bool) {
	earliest, found := 0, false
	for _, c := range counts {
		if c.WorksCount <= 0 {
			continue
		}
		if !found || c.Year < earliest {
			earliest, found = c.Year, true
		}
	}
	return earliest, found
}

// Compute rounds the author's counters and derives the years active as of
// now.
func Compute(a types.AuthorStats, now time.Time) Summary {
	s := Summary{
		Publications: RoundDown(a.WorksCount, PublicationsStep),
		Citations:    RoundDown(a.CitedByCount, CitationsStep),
		HIndex:       RoundDown(a.HIndex, HIndexStep),
	}
	if first, ok := EarliestYear(a.CountsByYear); ok {
		years := now.Year() - first
		s.Years = &years
	}
	return s
}

// FromPublications derives the publication count and years active from a
// publication list, used when the author profile is unavailable.
func FromPublications(pubs []types.Publication, now time.Time) Summary {
	s := Summary{Publications: RoundDown(len(pubs), PublicationsStep)}
	earliest := 0
	for _, p := range pubs {
		if p.Year > 0 && (earliest == 0 || p.Year < earliest) {
			earliest = p.Year
		}
	}
	if earliest > 0 {
		years := now.Year() - earliest
		s.Years = &years
	}
	return s
}

// AuthorSource fetches an author profile. *openalex.Client implements it.
type AuthorSource interface {
	Author(ctx context.Context, orcidID string) (types.AuthorStats, error)
}

// Resolve computes the summary from the author profile. When the profile
// cannot be fetched it falls back to FromPublications over the list
// returned by pubs, and the returned profile is nil. An error is returned
// only when both sources fail.
func Resolve(ctx context.Context, src AuthorSource, orcidID string, pubs func(context.Context) ([]types.Publication, error), now time.Time, w io.Writer) (Summary, *types.AuthorStats, error) {
	a, err := src.Author(ctx, orcidID)
	if err == nil {
		return Compute(a, now), &a, nil
	}
	if pubs == nil {
		return Summary{}, nil, err
	}
	if w != nil {
		fmt.Fprintf(w, "warning: author profile unavailable, using the publication list: %v\n", err)
	}
	list, perr := pubs(ctx)
	if perr != nil {
		return Summary{}, nil, fmt.Errorf("author profile: %v; publication list: %w", err, perr)
	}
	return FromPublications(list, now), nil, nil
}

// Label renders a headline value as "n+".
func Label(n int) string {
	return strconv.Itoa(n) + "+"
}

// Replacements returns the element updates for each page, keyed by page
// file name. stat-years is only included when the years are known.
func (s Summary) Replacements() map[string][]pagepatch.Replacement {
	index := []pagepatch.Replacement{
		{ID: "stat-publications", Value: Label(s.Publications)},
		{ID: "stat-citations", Value: Label(s.Citations)},
	}
	if s.Years != nil {
		index = append(index, pagepatch.Replacement{ID: "stat-years", Value: Label(*s.Years)})
	}
	return map[string][]pagepatch.Replacement{
		IndexPage: index,
		PublicationsPage: {
			{ID: "pub-stat-publications", Value: Label(s.Publications)},
			{ID: "pub-stat-citations", Value: Label(s.Citations)},
			{ID: "pub-stat-hindex", Value: Label(s.HIndex)},
		},
	}
}

// Apply patches the summary into the site's pages under siteDir. A missing
// page is an error; a missing element is a warning written to w.
func Apply(s Summary, siteDir string, w io.Writer) error {
	repl := s.Replacements()
	for _, page := range []string{IndexPage, PublicationsPage} {
		path := filepath.Join(siteDir, page)
		if _, err := pagepatch.PatchFile(path, repl[page], w); err != nil {
			return fmt.Errorf("updating %s: %w", page, err)
		}
	}
	return nil
}

// Describe writes raw and rounded values in a short human-readable form.
func Describe(a types.AuthorStats, s Summary, w io.Writer) {
	fmt.Fprintf(w, "Raw stats: %d publications, %d citations, h-index %d\n",
		a.WorksCount, a.CitedByCount, a.HIndex)
	if first, ok := EarliestYear(a.CountsByYear); ok {
		fmt.Fprintf(w, "Earliest year: %d\n", first)
	} else {
		fmt.Fprintln(w, "Earliest year: unknown")
	}
	years := "?"
	if s.Years != nil {
		years = strconv.Itoa(*s.Years)
	}
	fmt.Fprintf(w, "Rounded: %s pubs, %s citations, %s h-index, %s+ years\n",
		Label(s.Publications), Label(s.Citations), Label(s.HIndex), years)
}

// DescribeList writes a summary derived from a publication list.
func DescribeList(count int, s Summary, w io.Writer) {
	years := "?"
	if s.Years != nil {
		years = strconv.Itoa(*s.Years)
	}
	fmt.Fprintf(w, "From %d listed publications: %s pubs, %s+ years\n", count, Label(s.Publications), years)
}
