// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes bounds how much of a response body is read into memory.
const maxBodyBytes = 32 << 20

// GetJSON issues a GET with Accept: application/json and returns the body.
// Transport failures wrap ErrNetwork; non-2xx responses return *HTTPError.
func GetJSON(ctx context.Context, client *http.Client, reqURL, userAgent string) ([]byte, error) {
	return getJSON(ctx, reqURL, userAgent, func(req *http.Request) (*http.Response, error) {
		return client.Do(req)
	})
}

// GetJSONWithRetry is GetJSON with DoWithRetry's 429 handling.
func GetJSONWithRetry(ctx context.Context, client *http.Client, reqURL, userAgent string, maxRetries int) ([]byte, error) {
	return getJSON(ctx, reqURL, userAgent, func(req *http.Request) (*http.Response, error) {
		return DoWithRetry(ctx, client, req, maxRetries)
	})
}

func getJSON(ctx context.Context, reqURL, userAgent string, do func(*http.Request) (*http.Response, error)) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: GET %s: %v", ErrNetwork, reqURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: reqURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrNetwork, reqURL, err)
	}
	return body, nil
}
