// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the registry, aggregator, and cache stages.
// Callers test with errors.Is / errors.As.
var (
	// ErrNetwork marks a request that could not be sent or whose
	// response could not be read.
	ErrNetwork = errors.New("network error")

	// ErrParse marks malformed JSON or a missing expected field.
	ErrParse = errors.New("parse error")

	// ErrNotFound marks a missing input: no DOI to enrich, no cache file.
	ErrNotFound = errors.New("not found")
)

// HTTPError reports a non-2xx response.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// StatusCode returns the status of an *HTTPError in err's chain, or 0.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}
