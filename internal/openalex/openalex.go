// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openalex queries the OpenAlex aggregator: per-DOI work lookups
// used to enrich registry records, the works list of an ORCID author used
// to derive collaborators, and the author profile used for headline
// statistics.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/scholarsync/internal/httputil"
)

// apiBase is the OpenAlex API root. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://api.openalex.org"

const (
	doiResolver   = "https://doi.org/"
	orcidResolver = "https://orcid.org/"
)

// Client issues requests against the OpenAlex API. Requests are retried
// on HTTP 429 via httputil.DoWithRetry.
type Client struct {
	HTTP *http.Client

	// Mailto is sent as the mailto parameter for polite pool access.
	Mailto string

	UserAgent string

	// MaxRetries bounds 429 retries (0 uses the httputil default).
	MaxRetries int
}

// Work is the subset of an OpenAlex work record the pipeline consumes.
type Work struct {
	ID              string       `json:"id"`
	DOI             string       `json:"doi"`
	Title           string       `json:"title"`
	PublicationYear int          `json:"publication_year"`
	Authorships     []Authorship `json:"authorships"`
	Biblio          Biblio       `json:"biblio"`
	PrimaryLocation *Location    `json:"primary_location"`
}

// Authorship links a work to one author, in author order.
type Authorship struct {
	Author       Author        `json:"author"`
	Institutions []Institution `json:"institutions"`
}

// Author identifies an OpenAlex author.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ORCID       string `json:"orcid"`
}

// Institution is an affiliation listed on an authorship.
type Institution struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Biblio holds the bibliographic numbering of a work.
type Biblio struct {
	Volume    string `json:"volume"`
	Issue     string `json:"issue"`
	FirstPage string `json:"first_page"`
	LastPage  string `json:"last_page"`
}

// Location is where a work is hosted.
type Location struct {
	Source *Source `json:"source"`
}

// Source is a journal, repository, or conference series.
type Source struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// VenueName returns the primary location's source name, or "".
func (w *Work) VenueName() string {
	if w.PrimaryLocation == nil || w.PrimaryLocation.Source == nil {
		return ""
	}
	return strings.TrimSpace(w.PrimaryLocation.Source.DisplayName)
}

// LookupWork fetches the OpenAlex record for doi. An empty DOI returns
// an error wrapping httputil.ErrNotFound without a request.
func (c *Client) LookupWork(ctx context.Context, doi string) (*Work, error) {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return nil, fmt.Errorf("%w: no DOI to look up", httputil.ErrNotFound)
	}

	body, err := c.get(ctx, "/works/"+doiResolver+escapeDOI(doi), nil)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex work %s: %w", doi, err)
	}

	var w Work
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("%w: parsing OpenAlex work %s: %v", httputil.ErrParse, doi, err)
	}
	return &w, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	if c.Mailto != "" {
		params.Set("mailto", c.Mailto)
	}

	reqURL := apiBase + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	return httputil.GetJSONWithRetry(ctx, c.HTTP, reqURL, c.UserAgent, c.MaxRetries)
}

// escapeDOI path-escapes each slash-separated segment of a DOI.
func escapeDOI(doi string) string {
	parts := strings.Split(doi, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
