// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orcid fetches a researcher's works list from the ORCID public
// registry and parses it into typed work records.
package orcid

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/scholarsync/internal/httputil"
	"github.com/pdiddy/scholarsync/pkg/types"
)

// registryBase is the ORCID public API root. Declared as a var so tests
// can substitute an httptest server.
var registryBase = "https://pub.orcid.org/v3.0"

const (
	defaultTitle = "Untitled"
	defaultType  = "article"
	doiResolver  = "https://doi.org/"
)

// Client queries the ORCID works endpoint.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

// FetchWorks returns the raw works document for orcidID. Transport
// failures wrap httputil.ErrNetwork; non-2xx statuses are *httputil.HTTPError.
func (c *Client) FetchWorks(ctx context.Context, orcidID string) ([]byte, error) {
	orcidID = strings.TrimSpace(orcidID)
	if orcidID == "" {
		return nil, fmt.Errorf("%w: empty ORCID iD", httputil.ErrNotFound)
	}

	reqURL := registryBase + "/" + url.PathEscape(orcidID) + "/works"
	body, err := httputil.GetJSON(ctx, c.HTTP, reqURL, c.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("ORCID works request: %w", err)
	}
	return body, nil
}

// Works fetches and parses the works list for orcidID.
func (c *Client) Works(ctx context.Context, orcidID string) ([]types.WorkRecord, error) {
	body, err := c.FetchWorks(ctx, orcidID)
	if err != nil {
		return nil, err
	}
	return ParseWorks(body)
}

// ParseWorks extracts one WorkRecord per registry group. Only the first
// work-summary of each group is consulted; groups without a summary are
// skipped. A document without a "group" array is a parse error.
func ParseWorks(body []byte) ([]types.WorkRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: ORCID response is not valid JSON", httputil.ErrParse)
	}
	groups := gjson.GetBytes(body, "group")
	if !groups.IsArray() {
		return nil, fmt.Errorf("%w: no publication groups in ORCID response", httputil.ErrParse)
	}

	works := make([]types.WorkRecord, 0, len(groups.Array()))
	groups.ForEach(func(_, group gjson.Result) bool {
		summary := group.Get("work-summary.0")
		if summary.IsObject() {
			works = append(works, parseSummary(summary))
		}
		return true
	})
	return works, nil
}

func parseSummary(s gjson.Result) types.WorkRecord {
	w := types.WorkRecord{
		Title:        strings.TrimSpace(s.Get("title.title.value").String()),
		Year:         parseYear(s.Get("publication-date.year.value").String()),
		JournalTitle: strings.TrimSpace(s.Get("journal-title.value").String()),
		WorkType:     s.Get("type").String(),
		URL:          strings.TrimSpace(s.Get("url.value").String()),
		PutCode:      s.Get("put-code").Int(),
	}
	if w.Title == "" {
		w.Title = defaultTitle
	}
	if w.WorkType == "" {
		w.WorkType = defaultType
	}

	s.Get("external-ids.external-id").ForEach(func(_, id gjson.Result) bool {
		w.ExternalIDs = append(w.ExternalIDs, types.ExternalID{
			Type:  strings.ToLower(id.Get("external-id-type").String()),
			Value: strings.TrimSpace(id.Get("external-id-value").String()),
		})
		return true
	})

	if w.URL == "" {
		if doi := w.DOI(); doi != "" {
			w.URL = doiResolver + doi
		}
	}
	return w
}

// parseYear returns nil for missing, non-numeric, or non-positive years.
func parseYear(v string) *int {
	y, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || y <= 0 {
		return nil
	}
	return &y
}
