// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholarsync/pkg/types"
)

func TestCSL(t *testing.T) {
	item := CSL(fullPub())

	assert.Equal(t, "vanderberg2020", item.ID)
	assert.Equal(t, "article-journal", item.Type)
	assert.Equal(t, "Journal of Materials", item.ContainerTitle)
	assert.Equal(t, "100-110", item.Page)
	assert.Equal(t, "10.1/a", item.DOI)
	require.NotNil(t, item.Issued)
	assert.Equal(t, [][]int{{2020}}, item.Issued.DateParts)
	assert.Equal(t, []Name{
		{Family: "Van der Berg", Given: "A. B."},
		{Family: "Buckeridge", Given: "J."},
	}, item.Author)
}

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want Name
	}{
		{"Smith, A. B.", Name{Family: "Smith", Given: "A. B."}},
		{"Prince", Name{Literal: "Prince"}},
		{"  ", Name{}},
	}
	for _, tt := range tests {
		if got := parseName(tt.in); got != tt.want {
			t.Errorf("parseName(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestWriteCSL(t *testing.T) {
	a := fullPub()
	b := fullPub()
	b.Title = "Second Paper"
	raw := types.Publication{Title: "Raw", Year: 2019}

	var buf bytes.Buffer
	require.NoError(t, WriteCSL(&buf, []types.Publication{a, b, raw}))

	var items []Item
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 3)
	assert.Equal(t, "vanderberg2020", items[0].ID)
	assert.Equal(t, "vanderberg2020a", items[1].ID, "colliding keys get a suffix")
	assert.Equal(t, "publication", items[2].ID)
	assert.Nil(t, items[2].Author)
	assert.Contains(t, buf.String(), "container-title: Journal of Materials")
}

func TestCSLType(t *testing.T) {
	assert.Equal(t, "article-journal", cslType("journal-article"))
	assert.Equal(t, "chapter", cslType("book-chapter"))
	assert.Equal(t, "article", cslType("something-else"))
}

func TestCollisionSuffix(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "a"},
		{2, "b"},
		{26, "z"},
		{27, "aa"},
		{28, "ab"},
		{52, "az"},
		{53, "ba"},
		{702, "zz"},
		{703, "aaa"},
	}
	for _, tt := range tests {
		if got := suffix(tt.n); got != tt.want {
			t.Errorf("suffix(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestWriteCSL_ManyCollisionsStayUnique(t *testing.T) {
	pubs := make([]types.Publication, 60)
	for i := range pubs {
		pubs[i] = types.Publication{Title: "Same", Year: 2020, Authors: []string{"Walsh, A."}}
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSL(&buf, pubs))

	var items []Item
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 60)
	ids := make(map[string]bool, len(items))
	for _, it := range items {
		assert.Falsef(t, ids[it.ID], "duplicate id %s", it.ID)
		ids[it.ID] = true
	}
	assert.Equal(t, "walsh2020", items[0].ID)
	assert.Equal(t, "walsh2020z", items[26].ID)
	assert.Equal(t, "walsh2020aa", items[27].ID)
}
