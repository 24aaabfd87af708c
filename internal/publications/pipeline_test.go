// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publications

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholarsync/internal/batch"
	"github.com/pdiddy/scholarsync/internal/httputil"
	"github.com/pdiddy/scholarsync/internal/openalex"
	"github.com/pdiddy/scholarsync/pkg/types"
)

type fakeRegistry struct {
	works []types.WorkRecord
	err   error
}

func (f fakeRegistry) Works(context.Context, string) ([]types.WorkRecord, error) {
	return f.works, f.err
}

type fakeLookup map[string]*openalex.Work

func (f fakeLookup) LookupWork(_ context.Context, doi string) (*openalex.Work, error) {
	if w, ok := f[doi]; ok {
		return w, nil
	}
	return nil, &httputil.HTTPError{StatusCode: http.StatusNotFound, URL: doi}
}

func TestPipeline_EndToEnd(t *testing.T) {
	registry := fakeRegistry{works: []types.WorkRecord{
		{
			Title:       "A",
			Year:        year(2020),
			WorkType:    "journal-article",
			ExternalIDs: []types.ExternalID{{Type: "doi", Value: "10.1/a"}},
			URL:         "https://doi.org/10.1/a",
		},
		{Title: "B", Year: year(2019), WorkType: "journal-article"},
	}}
	lookup := fakeLookup{"10.1/a": {
		Authorships: []openalex.Authorship{
			{Author: openalex.Author{DisplayName: "Alice Beth Smith"}},
			{Author: openalex.Author{DisplayName: " "}},
			{Author: openalex.Author{DisplayName: "John Buckeridge"}},
		},
		Biblio:          openalex.Biblio{Volume: "12", Issue: "3", FirstPage: "100", LastPage: "110"},
		PrimaryLocation: &openalex.Location{Source: &openalex.Source{DisplayName: "Journal of Materials"}},
	}}

	var log bytes.Buffer
	p := &Pipeline{
		Registry: registry,
		Enricher: &openalex.Enricher{Lookup: lookup, Log: &log},
		Policy:   batch.LivePolicy,
		Log:      &log,
	}
	pubs, err := p.Run(context.Background(), "0000-0002-2537-5082")
	require.NoError(t, err)

	g := Group(pubs)
	require.Len(t, g, 2)

	assert.Equal(t, 2020, g[0].Year)
	require.Len(t, g[0].Publications, 1)
	a := g[0].Publications[0]
	assert.Equal(t, []string{"Smith, A. B.", "Buckeridge, J."}, a.Authors, "aggregator order kept")
	assert.Equal(t, "12", a.VolumeValue())
	assert.Equal(t, "3", a.IssueValue())
	assert.Equal(t, "100-110", a.PagesValue())
	assert.Equal(t, "Journal of Materials", a.Journal)

	assert.Equal(t, 2019, g[1].Year)
	require.Len(t, g[1].Publications, 1)
	b := g[1].Publications[0]
	assert.Equal(t, "B", b.Title)
	assert.Nil(t, b.Authors)
	assert.Nil(t, b.Volume)

	numbered := g.Numbered()
	assert.Equal(t, 2, numbered[0].Number)
	assert.Equal(t, 1, numbered[1].Number)

	assert.Contains(t, log.String(), "Enriching batch 1/1...")
	assert.Contains(t, log.String(), "Enriched 1 of 2 publications")
}

func TestPipeline_RegistryFailureIsFatal(t *testing.T) {
	p := &Pipeline{Registry: fakeRegistry{err: httputil.ErrNetwork}}
	_, err := p.Run(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httputil.ErrNetwork))
}

func TestPipeline_NoEnricher(t *testing.T) {
	p := &Pipeline{Registry: fakeRegistry{works: []types.WorkRecord{
		{Title: "only", Year: year(2001)},
		{Title: "dropped"},
	}}}
	pubs, err := p.Run(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	assert.Equal(t, "only", pubs[0].Title)
}

func TestPipeline_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Pipeline{
		Registry: fakeRegistry{works: []types.WorkRecord{{Title: "a", Year: year(2001)}}},
		Enricher: &openalex.Enricher{Lookup: fakeLookup{}},
	}
	_, err := p.Run(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
