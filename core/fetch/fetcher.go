// Package fetch implements the core.Fetcher collaborator. It performs
// HTTP GET requests with sensible defaults and reports the post-redirect
// URL, which conversions use as the document base URL.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ursisterbtw/markdown-lab-sub000/core"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "markdown-lab/1.0 (+https://github.com/ursisterbtw/markdown-lab-sub000)"
)

// HTTPFetcher fetches web pages via HTTP.
type HTTPFetcher struct {
	client *http.Client
}

// New creates an HTTPFetcher with a sensible timeout.
func New() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// Fetch retrieves the HTML content of the given URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	log.Debug().Str("url", url).Str("final_url", finalURL).
		Int("status", resp.StatusCode).Int("bytes", len(body)).
		Msg("fetched page")

	return &core.FetchResult{
		URL:        url,
		FinalURL:   finalURL,
		StatusCode: resp.StatusCode,
		HTML:       string(body),
		FetchedAt:  time.Now().UTC(),
	}, nil
}
