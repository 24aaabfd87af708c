// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the scholarsync pipeline:
// registry work records, enriched publications, collaborators, author
// statistics, and the cache documents written for the static site.
package types

// ExternalID is a typed identifier attached to a registry work
// (e.g. type "doi", value "10.1000/xyz").
type ExternalID struct {
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

// WorkRecord is a registry work after the parse step. Only the first
// work-summary of a registry group is represented.
type WorkRecord struct {
	// Title defaults to "Untitled" when the registry omits it.
	Title string

	// Year is nil when the registry year is missing or not numeric.
	Year *int

	// JournalTitle may be empty.
	JournalTitle string

	// WorkType defaults to "article".
	WorkType string

	ExternalIDs []ExternalID

	// URL is the registry link, else a doi.org link, else empty.
	URL string

	// PutCode is the registry-internal identifier.
	PutCode int64
}

// DOI returns the first external identifier of type "doi", or "".
func (w WorkRecord) DOI() string {
	for _, id := range w.ExternalIDs {
		if id.Type == "doi" && id.Value != "" {
			return id.Value
		}
	}
	return ""
}

// Publication is a normalized, optionally enriched publication. JSON field
// names match the publications cache document read by the site.
type Publication struct {
	Title   string  `json:"title" yaml:"title"`
	Year    int     `json:"year" yaml:"year"`
	Journal string  `json:"journal" yaml:"journal"`
	Type    string  `json:"type" yaml:"type"`
	DOI     *string `json:"doi" yaml:"doi"`
	URL     *string `json:"url" yaml:"url"`
	PutCode int64   `json:"putCode,omitempty" yaml:"put_code,omitempty"`

	// Authors is nil until enrichment succeeds. Each entry is "Family, I.".
	Authors []string `json:"authors" yaml:"authors"`

	Volume *string `json:"volume" yaml:"volume"`
	Issue  *string `json:"issue" yaml:"issue"`
	Pages  *string `json:"pages" yaml:"pages"`
}

// DOIValue returns the DOI or "" when absent.
func (p Publication) DOIValue() string { return deref(p.DOI) }

// URLValue returns the URL or "" when absent.
func (p Publication) URLValue() string { return deref(p.URL) }

// VolumeValue returns the volume or "".
func (p Publication) VolumeValue() string { return deref(p.Volume) }

// IssueValue returns the issue or "".
func (p Publication) IssueValue() string { return deref(p.Issue) }

// PagesValue returns the page range or "".
func (p Publication) PagesValue() string { return deref(p.Pages) }

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Collaborator is a co-author aggregated across the researcher's works.
type Collaborator struct {
	Name        string `json:"name" yaml:"name"`
	Institute   string `json:"institute" yaml:"institute"`
	PapersCount int    `json:"papersCount" yaml:"papers_count"`
	OpenAlexID  string `json:"openAlexId" yaml:"openalex_id"`
}

// PublicationsCache is the on-disk publications document.
type PublicationsCache struct {
	LastUpdated  string        `json:"lastUpdated"`
	ORCIDID      string        `json:"orcidId"`
	Publications []Publication `json:"publications"`
}

// CollaboratorsCache is the on-disk collaborators document.
type CollaboratorsCache struct {
	LastUpdated   string         `json:"lastUpdated"`
	ORCIDID       string         `json:"orcidId"`
	TotalWorks    int            `json:"totalWorks"`
	Collaborators []Collaborator `json:"collaborators"`
}

// YearCount is one entry of an author's per-year activity.
type YearCount struct {
	Year         int `json:"year" yaml:"year"`
	WorksCount   int `json:"works_count" yaml:"works_count"`
	CitedByCount int `json:"cited_by_count" yaml:"cited_by_count"`
}

// AuthorStats holds the aggregator's author profile counters.
type AuthorStats struct {
	WorksCount   int         `json:"works_count" yaml:"works_count"`
	CitedByCount int         `json:"cited_by_count" yaml:"cited_by_count"`
	HIndex       int         `json:"h_index" yaml:"h_index"`
	CountsByYear []YearCount `json:"counts_by_year" yaml:"counts_by_year"`
}
