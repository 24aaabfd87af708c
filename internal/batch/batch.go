// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs index-addressed work in fixed-size concurrent groups
// with a pause between groups, keeping request rates under the limits of
// the public APIs the pipeline calls.
package batch

import (
	"context"
	"sync"
	"time"
)

// Policy controls how Run partitions and paces work.
type Policy struct {
	// Size is the number of items run concurrently. Values <= 0 mean 1.
	Size int

	// Delay is the pause between consecutive groups. It is not applied
	// after the last group.
	Delay time.Duration

	// OnBatch, when set, is called before each group starts with the
	// 1-based group number and the group count.
	OnBatch func(batch, total int)
}

// DefaultPolicy is used by the offline refresh commands.
var DefaultPolicy = Policy{Size: 5, Delay: time.Second}

// LivePolicy is used on the live fallback path where a reader is waiting.
var LivePolicy = Policy{Size: 5}

// Groups returns how many groups n items split into under p.
func (p Policy) Groups(n int) int {
	if n <= 0 {
		return 0
	}
	size := p.size()
	return (n + size - 1) / size
}

func (p Policy) size() int {
	if p.Size <= 0 {
		return 1
	}
	return p.Size
}

// Run calls fn for every index in [0, n). Indices are taken in consecutive
// groups of p.Size; the calls of a group run concurrently and Run waits for
// all of them before pausing and starting the next group. fn must only
// write to state owned by its index.
//
// Cancellation is checked before each group, after each group, and during
// the pause; Run then returns ctx.Err() without starting further groups. A
// group already running is allowed to finish, but its results must not be
// trusted when Run returns an error.
func Run(ctx context.Context, n int, p Policy, fn func(ctx context.Context, i int)) error {
	size := p.size()
	total := p.Groups(n)

	for g := 0; g < total; g++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.OnBatch != nil {
			p.OnBatch(g+1, total)
		}

		start := g * size
		end := min(start+size, n)

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				fn(ctx, i)
			}(i)
		}
		wg.Wait()
		if err := ctx.Err(); err != nil {
			return err
		}

		if g < total-1 && p.Delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Delay):
			}
		}
	}
	return nil
}
