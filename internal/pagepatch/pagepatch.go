// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pagepatch rewrites the text of id-anchored elements in static
// HTML pages, leaving every other byte of the page as it was.
package pagepatch

import (
	"fmt"
	"io"
	"os"
	"regexp"
)

// Replacement sets the text of the element with the given id.
type Replacement struct {
	ID    string
	Value string
}

// anchorPattern matches id="ID"> followed by the text run up to the next
// closing tag. Group 1 is the text.
func anchorPattern(id string) *regexp.Regexp {
	return regexp.MustCompile(`id="` + regexp.QuoteMeta(id) + `">([^<]*)</`)
}

// ReplaceByID replaces the text of the first element whose markup reads
// id="ID">text</...; it returns the new page, the previous text, and
// whether the anchor was found. When it is not found html is returned
// unchanged.
func ReplaceByID(html, id, value string) (string, string, bool) {
	loc := anchorPattern(id).FindStringSubmatchIndex(html)
	if loc == nil {
		return html, "", false
	}
	start, end := loc[2], loc[3]
	return html[:start] + value + html[end:], html[start:end], true
}

// Apply runs each replacement against html in order. Missing anchors are
// reported as warnings on w; old to new transitions are logged as well.
func Apply(html string, name string, repl []Replacement, w io.Writer) string {
	if w == nil {
		w = io.Discard
	}
	for _, r := range repl {
		updated, old, ok := ReplaceByID(html, r.ID, r.Value)
		if !ok {
			fmt.Fprintf(w, "warning: %s: element %q not found\n", name, r.ID)
			continue
		}
		fmt.Fprintf(w, "%s: %s %s -> %s\n", name, r.ID, old, r.Value)
		html = updated
	}
	return html
}

// PatchFile applies the replacements to the page at path and rewrites it
// when its content changed, keeping the file's permissions. It reports
// whether the file was written.
func PatchFile(path string, repl []Replacement, w io.Writer) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("reading page: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading page: %w", err)
	}

	original := string(data)
	patched := Apply(original, info.Name(), repl, w)
	if patched == original {
		return false, nil
	}

	if err := os.WriteFile(path, []byte(patched), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing page: %w", err)
	}
	if w != nil {
		fmt.Fprintf(w, "%s updated successfully\n", info.Name())
	}
	return true, nil
}
