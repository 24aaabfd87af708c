// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholarsync/pkg/types"
)

// Item is a bibliographic entry in CSL (Citation Style Language) form,
// consumable by Pandoc and reference managers.
type Item struct {
	ID             string `yaml:"id"`
	Type           string `yaml:"type"`
	Title          string `yaml:"title"`
	Author         []Name `yaml:"author,omitempty"`
	ContainerTitle string `yaml:"container-title,omitempty"`
	Volume         string `yaml:"volume,omitempty"`
	Issue          string `yaml:"issue,omitempty"`
	Page           string `yaml:"page,omitempty"`
	Issued         *Date  `yaml:"issued,omitempty"`
	DOI            string `yaml:"DOI,omitempty"`
	URL            string `yaml:"URL,omitempty"`
}

// Name is a person's name in CSL form.
type Name struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// Date is a CSL date using date-parts.
type Date struct {
	DateParts [][]int `yaml:"date-parts"`
}

// CSL converts a publication to a CSL item keyed by its citation key.
func CSL(pub types.Publication) Item {
	item := Item{
		ID:             Key(pub),
		Type:           cslType(pub.Type),
		Title:          pub.Title,
		ContainerTitle: pub.Journal,
		Volume:         pub.VolumeValue(),
		Issue:          pub.IssueValue(),
		Page:           pub.PagesValue(),
		DOI:            pub.DOIValue(),
		URL:            pub.URLValue(),
	}
	for _, a := range pub.Authors {
		item.Author = append(item.Author, parseName(a))
	}
	if pub.Year > 0 {
		item.Issued = &Date{DateParts: [][]int{{pub.Year}}}
	}
	return item
}

// WriteCSL writes publications as a CSL-YAML list to w. Citation keys that
// collide get a, b, ... z, aa, ab... suffixes so ids stay unique.
func WriteCSL(w io.Writer, pubs []types.Publication) error {
	items := make([]Item, len(pubs))
	seen := make(map[string]int, len(pubs))
	for i, p := range pubs {
		items[i] = CSL(p)
		n := seen[items[i].ID]
		seen[items[i].ID] = n + 1
		if n > 0 {
			items[i].ID += suffix(n)
		}
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(items); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// suffix returns the n-th collision suffix: 1 is "a", 26 is "z", 27 is "aa".
func suffix(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('a' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// parseName splits a "Family, I. M." author into CSL parts. Names without
// a comma use the literal field.
func parseName(name string) Name {
	name = strings.TrimSpace(name)
	if name == "" {
		return Name{}
	}
	family, given, ok := strings.Cut(name, ",")
	if !ok {
		return Name{Literal: name}
	}
	return Name{
		Family: strings.TrimSpace(family),
		Given:  strings.TrimSpace(given),
	}
}

// cslType maps registry work types (e.g. "journal-article") to CSL types.
func cslType(workType string) string {
	switch strings.ToLower(workType) {
	case "", "article", "journal-article", "journal_article":
		return "article-journal"
	case "book":
		return "book"
	case "book-chapter", "book_chapter":
		return "chapter"
	case "conference-paper", "conference_paper":
		return "paper-conference"
	case "dissertation", "dissertation-thesis":
		return "thesis"
	case "preprint":
		return "article"
	case "report":
		return "report"
	case "dataset", "data-set":
		return "dataset"
	default:
		return "article"
	}
}
