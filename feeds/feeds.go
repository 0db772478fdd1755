package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Source is one configured RSS endpoint. Region is the fallback used when no
// region keyword matches an item's text.
type Source struct {
	ID     string `mapstructure:"id" json:"id"`
	Name   string `mapstructure:"name" json:"name"`
	URL    string `mapstructure:"url" json:"url"`
	Region string `mapstructure:"region" json:"region"`
}

// RawItem is one feed entry as extracted from the document, before
// normalization. Title and URL are always non-empty.
type RawItem struct {
	Title        string
	URL          string
	Description  string
	PublishedRaw string
	SourceID     string
}

// FetchResult is one source's settled outcome: either the raw document body
// or the failure that prevented it.
type FetchResult struct {
	Source Source
	Body   string
	Err    error
}

// Fetcher retrieves feed documents, one bounded request per source.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	Timeout   time.Duration
}

// NewFetcher builds a fetcher with the given per-source timeout.
func NewFetcher(userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
		Timeout:   timeout,
	}
}

// FetchAll retrieves every source concurrently and waits for all of them to
// settle before returning. Each source fails independently; the returned
// slice has one entry per source, in input order.
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source) []FetchResult {
	results := make([]FetchResult, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			body, err := f.fetch(ctx, src)
			results[i] = FetchResult{Source: src, Body: body, Err: err}
		}(i, src)
	}
	wg.Wait()

	return results
}

func (f *Fetcher) fetch(ctx context.Context, src Source) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, src.URL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", src.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetching %s: HTTP %d", src.ID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s body: %w", src.ID, err)
	}

	return string(body), nil
}
