// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publications

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/pdiddy/scholarsync/internal/batch"
	"github.com/pdiddy/scholarsync/pkg/types"
)

// Registry lists the works attached to an ORCID record. *orcid.Client
// implements it.
type Registry interface {
	Works(ctx context.Context, orcidID string) ([]types.WorkRecord, error)
}

// Enricher merges aggregator metadata into a publication in place and
// reports whether it changed. *openalex.Enricher implements it.
type Enricher interface {
	Enrich(ctx context.Context, pub *types.Publication) bool
}

// Pipeline fetches, normalizes, and enriches a researcher's publications.
type Pipeline struct {
	Registry Registry

	// Enricher is optional; without it records stay as the registry
	// returned them.
	Enricher Enricher

	Policy batch.Policy

	// Log receives progress lines. Nil discards them.
	Log io.Writer
}

// Run returns the researcher's publications sorted newest first. A
// registry failure is returned as an error; enrichment failures are not.
func (p *Pipeline) Run(ctx context.Context, orcidID string) ([]types.Publication, error) {
	w := p.Log
	if w == nil {
		w = io.Discard
	}

	fmt.Fprintf(w, "Fetching publications from ORCID (%s)...\n", orcidID)
	works, err := p.Registry.Works(ctx, orcidID)
	if err != nil {
		return nil, fmt.Errorf("fetching registry works: %w", err)
	}
	fmt.Fprintf(w, "Found %d works on ORCID\n", len(works))

	pubs := Normalize(works)
	fmt.Fprintf(w, "Processing %d publications...\n", len(pubs))
	if p.Enricher == nil || len(pubs) == 0 {
		return pubs, nil
	}

	policy := p.Policy
	if policy.OnBatch == nil {
		policy.OnBatch = func(b, total int) {
			fmt.Fprintf(w, "  Enriching batch %d/%d...\n", b, total)
		}
	}

	var enriched atomic.Int64
	err = batch.Run(ctx, len(pubs), policy, func(ctx context.Context, i int) {
		if p.Enricher.Enrich(ctx, &pubs[i]) {
			enriched.Add(1)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("enriching publications: %w", err)
	}
	fmt.Fprintf(w, "Enriched %d of %d publications\n", enriched.Load(), len(pubs))
	return pubs, nil
}
