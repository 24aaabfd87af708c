// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrUnavailable reports that neither the cache nor the live source
// produced data.
var ErrUnavailable = errors.New("data unavailable from cache and live source")

// Apology texts shown to a reader when a loader ends in StateError.
const (
	PublicationsErrorMessage  = "Unable to Load Publications\nWe're having trouble loading the publications list. Please try again later or visit the Google Scholar profile."
	CollaboratorsErrorMessage = "Unable to Load Collaborators\nWe're having trouble loading the collaborators list. Please try again later."
)

// State is a loader lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateTryCache
	StateTryLive
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateTryCache:
		return "try-cache"
	case StateTryLive:
		return "try-live"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Source names where a loaded value came from.
type Source string

const (
	SourceCache Source = "cache"
	SourceLive  Source = "live"
)

// Result is the outcome of a Load.
type Result[T any] struct {
	Value  T
	Source Source
	State  State
}

// Loader tries a cached value first and falls back to a live fetch. Each
// source is tried at most once per Load.
type Loader[T any] struct {
	// Cache reads the cached value. Any error, including ErrEmpty, moves
	// the loader on to Live.
	Cache func() (T, error)

	// Live fetches the value from the network.
	Live func(ctx context.Context) (T, error)

	// Empty reports whether a live value carries no entries. Empty live
	// values are treated as a failure. Nil means never empty.
	Empty func(T) bool

	// Log receives fallback notices. Nil discards them.
	Log io.Writer

	state State
}

// State returns the state the last Load finished in.
func (l *Loader[T]) State() State { return l.state }

// Load runs the cache-then-live sequence. On success the result is in
// StateReady; when both sources fail it is in StateError and the error
// wraps ErrUnavailable.
func (l *Loader[T]) Load(ctx context.Context) (Result[T], error) {
	w := l.Log
	if w == nil {
		w = io.Discard
	}

	l.state = StateTryCache
	if l.Cache != nil {
		v, err := l.Cache()
		if err == nil {
			l.state = StateReady
			return Result[T]{Value: v, Source: SourceCache, State: l.state}, nil
		}
		fmt.Fprintf(w, "warning: cache not available, fetching live: %v\n", err)
	}

	l.state = StateTryLive
	var zero T
	if l.Live == nil {
		l.state = StateError
		return Result[T]{State: l.state}, fmt.Errorf("%w: no live source", ErrUnavailable)
	}
	v, err := l.Live(ctx)
	if err == nil && l.Empty != nil && l.Empty(v) {
		err = ErrEmpty
	}
	if err != nil {
		l.state = StateError
		return Result[T]{Value: zero, State: l.state}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	l.state = StateReady
	return Result[T]{Value: v, Source: SourceLive, State: l.state}, nil
}
