// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pdiddy/scholarsync/internal/httputil"
	"github.com/pdiddy/scholarsync/pkg/types"
)

// WorkLookup resolves a DOI to an OpenAlex work. *Client implements it.
type WorkLookup interface {
	LookupWork(ctx context.Context, doi string) (*Work, error)
}

// MetadataStore memoises successful lookups across runs.
type MetadataStore interface {
	Get(ctx context.Context, doi string) (*Work, bool, error)
	Put(ctx context.Context, doi string, w *Work) error
}

// Enricher fills author, venue, and numbering fields of a publication from
// the aggregator. Enrichment is best effort: Enrich never fails, it only
// reports whether the record changed.
type Enricher struct {
	Lookup WorkLookup

	// Store is optional.
	Store MetadataStore

	// Log receives warning lines. Nil discards them.
	Log io.Writer

	mu sync.Mutex // serializes Log writes from concurrent lookups
}

// Enrich looks up pub's DOI and merges the result into pub in place.
// It returns false, leaving pub untouched, when the record has no DOI or
// the lookup fails for any reason.
func (e *Enricher) Enrich(ctx context.Context, pub *types.Publication) bool {
	doi := pub.DOIValue()
	if doi == "" {
		return false
	}

	work := e.recall(ctx, doi)
	if work == nil {
		w, err := e.Lookup.LookupWork(ctx, doi)
		if err != nil {
			if httputil.StatusCode(err) == http.StatusNotFound {
				e.warnf("no metadata record for DOI %s", doi)
			} else {
				e.warnf("metadata lookup failed for DOI %s: %v", doi, err)
			}
			return false
		}
		work = w
		e.remember(ctx, doi, work)
	}

	Apply(pub, work)
	return true
}

func (e *Enricher) recall(ctx context.Context, doi string) *Work {
	if e.Store == nil {
		return nil
	}
	w, ok, err := e.Store.Get(ctx, doi)
	if err != nil {
		e.warnf("metadata memo read failed for DOI %s: %v", doi, err)
		return nil
	}
	if !ok {
		return nil
	}
	return w
}

func (e *Enricher) remember(ctx context.Context, doi string, w *Work) {
	if e.Store == nil {
		return
	}
	if err := e.Store.Put(ctx, doi, w); err != nil {
		e.warnf("metadata memo write failed for DOI %s: %v", doi, err)
	}
}

func (e *Enricher) warnf(format string, args ...any) {
	if e.Log == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Fprintf(e.Log, "  warning: "+format+"\n", args...)
}

// Apply merges an aggregator work into pub. Authors are rebuilt entirely
// from the aggregator when it lists authorships. Volume and issue are
// replaced, pages are set when a first page is known, and the venue name
// only fills an empty journal.
func Apply(pub *types.Publication, w *Work) {
	if w.Authorships != nil {
		authors := make([]string, 0, len(w.Authorships))
		for _, a := range w.Authorships {
			if name := FormatAuthorName(a.Author.DisplayName); name != "" {
				authors = append(authors, name)
			}
		}
		pub.Authors = authors
	}

	pub.Volume = types.StringPtr(strings.TrimSpace(w.Biblio.Volume))
	pub.Issue = types.StringPtr(strings.TrimSpace(w.Biblio.Issue))
	if pages := FormatPages(w.Biblio.FirstPage, w.Biblio.LastPage); pages != "" {
		pub.Pages = &pages
	}

	if pub.Journal == "" {
		pub.Journal = w.VenueName()
	}
}

// FormatAuthorName turns "First Middle Last" into "Last, F. M.". A single
// token is returned unchanged and a blank name yields "".
func FormatAuthorName(displayName string) string {
	parts := strings.Fields(displayName)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}

	family := parts[len(parts)-1]
	initials := make([]string, 0, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		r, _ := utf8.DecodeRuneInString(p)
		initials = append(initials, string(r)+".")
	}
	return family + ", " + strings.Join(initials, " ")
}

// FormatPages renders a page range: "first-last" when last differs from
// first, otherwise first. No first page yields "".
func FormatPages(first, last string) string {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if first == "" {
		return ""
	}
	if last != "" && last != first {
		return first + "-" + last
	}
	return first
}
