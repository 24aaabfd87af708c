// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation renders publications as BibTeX entries, venue lines,
// and CSL-YAML items.
package citation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/scholarsync/pkg/types"
)

// placeholderKey is used when a publication has no authors.
const placeholderKey = "publication"

// Key returns the BibTeX citation key: the first author's family name,
// lowercased with whitespace removed, followed by the year.
func Key(pub types.Publication) string {
	if len(pub.Authors) == 0 {
		return placeholderKey
	}
	family, _, _ := strings.Cut(pub.Authors[0], ",")
	family = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(family))
	return family + yearString(pub.Year)
}

// BibTeX renders pub as an @article entry. Empty fields are omitted; the
// field order is author, title, journal, volume, number, pages, year, doi.
func BibTeX(pub types.Publication) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@article{%s,\n", Key(pub))

	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, "  %s = {%s},\n", name, value)
		}
	}
	field("author", strings.Join(pub.Authors, " and "))
	field("title", pub.Title)
	field("journal", pub.Journal)
	field("volume", pub.VolumeValue())
	field("number", pub.IssueValue())
	field("pages", pub.PagesValue())
	field("year", yearString(pub.Year))
	if doi := pub.DOIValue(); doi != "" {
		fmt.Fprintf(&b, "  doi = {%s}\n", doi)
	}

	b.WriteString("}")
	return b.String()
}

// VenueLine renders "Journal, Volume(Issue), Pages, Year." When the
// journal is empty only "Year." is rendered, and "" when the year is
// unknown too. An issue without a volume attaches to the journal name.
func VenueLine(pub types.Publication) string {
	year := yearString(pub.Year)
	if pub.Journal == "" {
		if year == "" {
			return ""
		}
		return year + "."
	}

	parts := []string{pub.Journal}
	if v := pub.VolumeValue(); v != "" {
		parts = append(parts, v)
	}
	if issue := pub.IssueValue(); issue != "" {
		parts[len(parts)-1] += "(" + issue + ")"
	}
	if pages := pub.PagesValue(); pages != "" {
		parts = append(parts, pages)
	}
	if year != "" {
		parts = append(parts, year)
	}
	return strings.Join(parts, ", ") + "."
}

// Link returns the publication URL, falling back to the DOI resolver.
func Link(pub types.Publication) string {
	if u := pub.URLValue(); u != "" {
		return u
	}
	if doi := pub.DOIValue(); doi != "" {
		return "https://doi.org/" + doi
	}
	return ""
}

func yearString(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year)
}
