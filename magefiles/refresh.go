//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Refresh groups the targets that regenerate the site's data.
type Refresh mg.Namespace

func scholarsync(args ...string) error {
	return sh.RunV(filepath.Join(binDir, binName), args...)
}

// Publications rebuilds assets/data/publications.json.
func (Refresh) Publications() error {
	mg.Deps(Build)
	return scholarsync("publications", "refresh")
}

// Collaborators rebuilds assets/data/collaborators.json.
func (Refresh) Collaborators() error {
	mg.Deps(Build)
	return scholarsync("collaborators", "refresh")
}

// Stats patches the headline statistics into index.html and publications.html.
func (Refresh) Stats() error {
	mg.Deps(Build)
	return scholarsync("stats", "update")
}

// All runs every refresh target in turn.
func (Refresh) All() {
	mg.SerialDeps(Refresh.Publications, Refresh.Collaborators, Refresh.Stats)
}
