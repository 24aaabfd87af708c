// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publications

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/scholarsync/internal/citation"
)

// FormatTable writes the grouping as plain text: a header per year, then
// each publication as "N. Title" followed by an authors line, a venue
// line, and a link line when present. Authors starting with highlight are
// wrapped in ** markers.
func FormatTable(g Grouping, highlight string, w io.Writer) {
	numbered := g.Numbered()
	idx := 0
	for gi, yg := range g {
		if gi > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%d\n%s\n", yg.Year, strings.Repeat("=", 4))
		for range yg.Publications {
			np := numbered[idx]
			idx++
			pub := np.Publication

			fmt.Fprintf(w, "%3d. %s\n", np.Number, pub.Title)
			if authors := formatAuthors(pub.Authors, highlight); authors != "" {
				fmt.Fprintf(w, "     %s\n", authors)
			}
			if venue := citation.VenueLine(pub); venue != "" {
				fmt.Fprintf(w, "     %s\n", venue)
			}
			if link := citation.Link(pub); link != "" {
				fmt.Fprintf(w, "     %s\n", link)
			}
		}
	}
	fmt.Fprintf(w, "\n%d publications\n", len(numbered))
}

func formatAuthors(authors []string, highlight string) string {
	if len(authors) == 0 {
		return ""
	}
	out := make([]string, len(authors))
	for i, a := range authors {
		if highlight != "" && strings.HasPrefix(a, highlight) {
			a = "**" + a + "**"
		}
		out[i] = a
	}
	return strings.Join(out, "; ")
}

type publicationJSON struct {
	Number  int      `json:"number"`
	Title   string   `json:"title"`
	Year    int      `json:"year"`
	Journal string   `json:"journal"`
	Authors []string `json:"authors"`
	Venue   string   `json:"venue"`
	Link    string   `json:"link,omitempty"`
	BibTeX  string   `json:"bibtex"`
}

type yearJSON struct {
	Year         int               `json:"year"`
	Publications []publicationJSON `json:"publications"`
}

// FormatJSON writes the grouping as indented JSON: years newest first,
// each publication carrying its display number, venue line, and BibTeX.
func FormatJSON(g Grouping, w io.Writer) error {
	numbered := g.Numbered()
	out := make([]yearJSON, 0, len(g))
	idx := 0
	for _, yg := range g {
		y := yearJSON{Year: yg.Year, Publications: make([]publicationJSON, 0, len(yg.Publications))}
		for range yg.Publications {
			np := numbered[idx]
			idx++
			pub := np.Publication
			y.Publications = append(y.Publications, publicationJSON{
				Number:  np.Number,
				Title:   pub.Title,
				Year:    pub.Year,
				Journal: pub.Journal,
				Authors: pub.Authors,
				Venue:   citation.VenueLine(pub),
				Link:    citation.Link(pub),
				BibTeX:  citation.BibTeX(pub),
			})
		}
		out = append(out, y)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
