// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholarsync/internal/httputil"
	"github.com/pdiddy/scholarsync/pkg/types"
)

func TestFormatAuthorName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice Beth Smith", "Smith, A. B."},
		{"John Buckeridge", "Buckeridge, J."},
		{"Prince", "Prince"},
		{"", ""},
		{"   ", ""},
		{"  Marie   Curie ", "Curie, M."},
		{"Émile Zola", "Zola, É."},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatAuthorName(tt.in); got != tt.want {
				t.Errorf("FormatAuthorName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatPages(t *testing.T) {
	tests := []struct {
		first, last, want string
	}{
		{"100", "100", "100"},
		{"100", "110", "100-110"},
		{"100", "", "100"},
		{"", "110", ""},
		{"", "", ""},
		{"e123", "e123", "e123"},
	}
	for _, tt := range tests {
		if got := FormatPages(tt.first, tt.last); got != tt.want {
			t.Errorf("FormatPages(%q, %q) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
	}
}

func testWork() *Work {
	return &Work{
		Authorships: []Authorship{
			{Author: Author{DisplayName: "Alice Beth Smith"}},
			{Author: Author{DisplayName: ""}},
			{Author: Author{DisplayName: "John Buckeridge"}},
		},
		Biblio:          Biblio{Volume: "12", Issue: "3", FirstPage: "100", LastPage: "110"},
		PrimaryLocation: &Location{Source: &Source{DisplayName: "Journal of Materials"}},
	}
}

func TestApply(t *testing.T) {
	pub := types.Publication{
		Title:   "Defects",
		Year:    2020,
		Authors: []string{"Registry, R."},
	}
	Apply(&pub, testWork())

	assert.Equal(t, []string{"Smith, A. B.", "Buckeridge, J."}, pub.Authors, "authors rebuilt, blanks dropped")
	assert.Equal(t, "12", pub.VolumeValue())
	assert.Equal(t, "3", pub.IssueValue())
	assert.Equal(t, "100-110", pub.PagesValue())
	assert.Equal(t, "Journal of Materials", pub.Journal, "venue fills empty journal")
}

func TestApply_RegistryJournalWins(t *testing.T) {
	pub := types.Publication{Journal: "Phys. Rev. B"}
	Apply(&pub, testWork())
	assert.Equal(t, "Phys. Rev. B", pub.Journal)
}

func TestApply_SparseWork(t *testing.T) {
	pub := types.Publication{Title: "Sparse"}
	Apply(&pub, &Work{})

	assert.Nil(t, pub.Authors, "no authorships leaves authors unset")
	assert.Nil(t, pub.Volume)
	assert.Nil(t, pub.Issue)
	assert.Nil(t, pub.Pages)
	assert.Equal(t, "", pub.Journal)
}

type fakeLookup struct {
	mu    sync.Mutex
	works map[string]*Work
	calls map[string]int
}

func (f *fakeLookup) LookupWork(_ context.Context, doi string) (*Work, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[doi]++
	w, ok := f.works[doi]
	if !ok {
		return nil, &httputil.HTTPError{StatusCode: http.StatusNotFound, URL: "/works/" + doi}
	}
	return w, nil
}

type memStore struct {
	works map[string]*Work
	err   error
}

func (m *memStore) Get(_ context.Context, doi string) (*Work, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	w, ok := m.works[doi]
	return w, ok, nil
}

func (m *memStore) Put(_ context.Context, doi string, w *Work) error {
	if m.err != nil {
		return m.err
	}
	if m.works == nil {
		m.works = map[string]*Work{}
	}
	m.works[doi] = w
	return nil
}

func TestEnrich_Success(t *testing.T) {
	lookup := &fakeLookup{works: map[string]*Work{"10.1/a": testWork()}}
	e := &Enricher{Lookup: lookup}

	pub := types.Publication{Title: "A", Year: 2020, DOI: types.StringPtr("10.1/a")}
	require.True(t, e.Enrich(context.Background(), &pub))
	assert.Len(t, pub.Authors, 2)
}

func TestEnrich_NoDOI(t *testing.T) {
	lookup := &fakeLookup{}
	e := &Enricher{Lookup: lookup}

	pub := types.Publication{Title: "B", Year: 2019}
	assert.False(t, e.Enrich(context.Background(), &pub))
	assert.Empty(t, lookup.calls, "no request without a DOI")
}

func TestEnrich_LookupFailureLeavesRecordUnchanged(t *testing.T) {
	var log bytes.Buffer
	e := &Enricher{Lookup: &fakeLookup{}, Log: &log}

	pub := types.Publication{Title: "C", Year: 2018, Journal: "J", DOI: types.StringPtr("10.9/missing")}
	before := pub
	assert.False(t, e.Enrich(context.Background(), &pub))
	assert.Equal(t, before, pub)
	assert.Nil(t, pub.Authors)
	assert.Contains(t, log.String(), "warning: no metadata record for DOI 10.9/missing")
}

type failingLookup struct{ err error }

func (f failingLookup) LookupWork(context.Context, string) (*Work, error) { return nil, f.err }

func TestEnrich_ServerErrorIsWarned(t *testing.T) {
	var log bytes.Buffer
	e := &Enricher{
		Lookup: failingLookup{err: &httputil.HTTPError{StatusCode: http.StatusInternalServerError, URL: "/works/x"}},
		Log:    &log,
	}

	pub := types.Publication{DOI: types.StringPtr("10.1/a")}
	assert.False(t, e.Enrich(context.Background(), &pub))
	assert.Contains(t, log.String(), "warning: metadata lookup failed for DOI 10.1/a")
	assert.NotContains(t, log.String(), "no metadata record")
}

func TestEnrich_UsesMemo(t *testing.T) {
	lookup := &fakeLookup{works: map[string]*Work{"10.1/a": testWork()}}
	store := &memStore{}
	e := &Enricher{Lookup: lookup, Store: store}

	for i := 0; i < 2; i++ {
		pub := types.Publication{DOI: types.StringPtr("10.1/a")}
		require.True(t, e.Enrich(context.Background(), &pub))
		assert.Equal(t, "Smith, A. B.", pub.Authors[0])
	}
	assert.Equal(t, 1, lookup.calls["10.1/a"], "second run served from memo")
	assert.Contains(t, store.works, "10.1/a")
}

func TestEnrich_MemoErrorFallsBackToNetwork(t *testing.T) {
	var log bytes.Buffer
	lookup := &fakeLookup{works: map[string]*Work{"10.1/a": testWork()}}
	e := &Enricher{Lookup: lookup, Store: &memStore{err: errors.New("disk full")}, Log: &log}

	pub := types.Publication{DOI: types.StringPtr("10.1/a")}
	require.True(t, e.Enrich(context.Background(), &pub))
	assert.Equal(t, 1, lookup.calls["10.1/a"])
	assert.Contains(t, log.String(), "memo read failed")
	assert.Contains(t, log.String(), "memo write failed")
}

func ExampleFormatAuthorName() {
	fmt.Println(FormatAuthorName("Alice Beth Smith"))
	fmt.Println(FormatAuthorName("Prince"))
	// Output:
	// Smith, A. B.
	// Prince
}
