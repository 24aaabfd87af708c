// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Set
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAlexEmail, "  lab@example.org  \n")
				writeFile(t, dir, ORCIDID, "0000-0002-2537-5082")
				return dir
			},
			want: Set{
				OpenAlexEmail: "lab@example.org",
				ORCIDID:       "0000-0002-2537-5082",
			},
		},
		{
			name: "returns empty set for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Set{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAlexEmail, "lab@example.org")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: Set{OpenAlexEmail: "lab@example.org"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, ORCIDID, "0000-0001")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Set{ORCIDID: "0000-0001"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read mode 0 files")
	}
	dir := t.TempDir()
	writeFile(t, dir, OpenAlexEmail, "lab@example.org")

	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	var log bytes.Buffer
	got, err := Load(dir, &log)
	require.NoError(t, err)
	assert.Equal(t, "lab@example.org", got[OpenAlexEmail])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
	assert.Contains(t, log.String(), "warning: could not read secret bad-key")
}

func TestDefault(t *testing.T) {
	s := Set{OpenAlexEmail: "secret@example.org"}
	assert.Equal(t, "flag@example.org", s.Default(OpenAlexEmail, "flag@example.org"))
	assert.Equal(t, "secret@example.org", s.Default(OpenAlexEmail, ""))
	assert.Equal(t, "", s.Default(ORCIDID, ""))
	assert.Equal(t, "", Set(nil).Default(ORCIDID, ""))
}

func TestNames(t *testing.T) {
	s := Set{ORCIDID: "x", OpenAlexEmail: "y"}
	assert.Equal(t, []string{OpenAlexEmail, ORCIDID}, s.Names())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
