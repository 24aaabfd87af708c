// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publications turns registry work records into the year-grouped,
// numbered publication list shown on the site: normalization, enrichment
// via the batch scheduler, grouping, and text/JSON presentation.
package publications

import (
	"sort"
	"strings"

	"github.com/pdiddy/scholarsync/pkg/types"
)

// YearGroup holds the publications of one year in display order.
type YearGroup struct {
	Year         int                 `json:"year"`
	Publications []types.Publication `json:"publications"`
}

// Grouping is the year-grouped list with years in descending order.
type Grouping []YearGroup

// NumberedPublication pairs a publication with its display number.
type NumberedPublication struct {
	Number      int
	Publication types.Publication
}

// FromWork converts a registry record to a publication. It reports false
// when the record has no usable year; such records are never displayed.
func FromWork(w types.WorkRecord) (types.Publication, bool) {
	if w.Year == nil || *w.Year <= 0 {
		return types.Publication{}, false
	}
	return types.Publication{
		Title:   w.Title,
		Year:    *w.Year,
		Journal: w.JournalTitle,
		Type:    w.WorkType,
		DOI:     types.StringPtr(w.DOI()),
		URL:     types.StringPtr(w.URL),
		PutCode: w.PutCode,
	}, true
}

// Normalize converts registry records, drops those without a usable year,
// and sorts the rest newest first.
func Normalize(works []types.WorkRecord) []types.Publication {
	pubs := make([]types.Publication, 0, len(works))
	for _, w := range works {
		if p, ok := FromWork(w); ok {
			pubs = append(pubs, p)
		}
	}
	SortPublications(pubs)
	return pubs
}

// SortPublications orders pubs by year descending, then title ascending.
// Ties keep their input order.
func SortPublications(pubs []types.Publication) {
	sort.SliceStable(pubs, func(i, j int) bool {
		if pubs[i].Year != pubs[j].Year {
			return pubs[i].Year > pubs[j].Year
		}
		return strings.ToLower(pubs[i].Title) < strings.ToLower(pubs[j].Title)
	})
}

// Group buckets publications by year. Years run newest first; within a
// year, publications keep the order SortPublications gives them. Records
// with a non-positive year are dropped. The input slice is not modified.
func Group(pubs []types.Publication) Grouping {
	valid := make([]types.Publication, 0, len(pubs))
	for _, p := range pubs {
		if p.Year > 0 {
			valid = append(valid, p)
		}
	}
	SortPublications(valid)

	var g Grouping
	for _, p := range valid {
		if n := len(g); n > 0 && g[n-1].Year == p.Year {
			g[n-1].Publications = append(g[n-1].Publications, p)
			continue
		}
		g = append(g, YearGroup{Year: p.Year, Publications: []types.Publication{p}})
	}
	return g
}

// Len returns the number of publications across all years.
func (g Grouping) Len() int {
	n := 0
	for _, yg := range g {
		n += len(yg.Publications)
	}
	return n
}

// Flatten returns the publications in display order.
func (g Grouping) Flatten() []types.Publication {
	out := make([]types.Publication, 0, g.Len())
	for _, yg := range g {
		out = append(out, yg.Publications...)
	}
	return out
}

// Numbered assigns display numbers counting down from Len() to 1 in
// display order, so the newest publication carries the highest number.
func (g Grouping) Numbered() []NumberedPublication {
	n := g.Len()
	out := make([]NumberedPublication, 0, n)
	for _, yg := range g {
		for _, p := range yg.Publications {
			out = append(out, NumberedPublication{Number: n, Publication: p})
			n--
		}
	}
	return out
}
