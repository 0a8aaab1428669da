// Package meta resolves display metadata for saved URLs: it fetches the
// page, extracts title/description/icon through ordered fallback chains
// and memoizes successful results.
package meta

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"linkvault/internal/cache"
)

// maxBodySize caps how much of a page is read for extraction.
const maxBodySize = 1 << 20 // 1 MiB

// DefaultFetchTimeout bounds a single metadata fetch.
const DefaultFetchTimeout = 10 * time.Second

// faviconService renders a displayable icon for any hostname, used when
// the page declares no icon of its own.
const faviconService = "https://www.google.com/s2/favicons?domain=%s"

// fallbackTitle is the last-resort title when even the raw URL is empty.
const fallbackTitle = "Untitled"

// Metadata describes a link for display. Title is always non-empty;
// Description and Icon may be empty.
type Metadata struct {
	Title       string
	Description string
	Icon        string
}

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Resolver turns URLs into Metadata. Resolution is total: any fetch or
// parse failure degrades to {Title: url} instead of returning an error,
// and only successful results are cached.
type Resolver struct {
	client  Doer
	cache   *cache.Cache[Metadata]
	timeout time.Duration
	log     zerolog.Logger
}

// NewResolver creates a Resolver. A nil client falls back to
// http.DefaultClient; a non-positive timeout to DefaultFetchTimeout.
func NewResolver(client Doer, ttl, timeout time.Duration, log zerolog.Logger) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Resolver{
		client:  client,
		cache:   cache.New[Metadata](ttl),
		timeout: timeout,
		log:     log,
	}
}

// Resolve returns Metadata for rawURL, consulting the cache first.
// Concurrent calls for the same uncached URL may both fetch; the last
// write wins and both observe a correct result.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) Metadata {
	if m, ok := r.cache.Get(rawURL); ok {
		return m
	}

	m, ok := r.fetch(ctx, rawURL)
	if !ok {
		// Degraded result; not cached so the next call retries.
		return degraded(rawURL)
	}

	r.cache.Set(rawURL, m)
	return m
}

// Invalidate drops any cached entry for rawURL so the next Resolve
// fetches again.
func (r *Resolver) Invalidate(rawURL string) {
	r.cache.Invalidate(rawURL)
}

// fetch performs the network round-trip and extraction. The second
// return value is false when the result is degraded.
func (r *Resolver) fetch(ctx context.Context, rawURL string) (Metadata, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		r.log.Debug().Err(err).Str("url", rawURL).Msg("metadata request invalid")
		return Metadata{}, false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Debug().Err(err).Str("url", rawURL).Msg("metadata fetch failed")
		return Metadata{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.log.Debug().Int("status", resp.StatusCode).Str("url", rawURL).Msg("metadata fetch non-success")
		return Metadata{}, false
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		r.log.Debug().Err(err).Str("url", rawURL).Msg("metadata parse failed")
		return Metadata{}, false
	}

	return extractMetadata(doc, rawURL), true
}

// degraded is the resolution outcome when fetch or parse fails.
func degraded(rawURL string) Metadata {
	if rawURL == "" {
		return Metadata{Title: fallbackTitle}
	}
	return Metadata{Title: rawURL}
}

// extractMetadata runs the fallback chains over a parsed document.
func extractMetadata(doc *html.Node, rawURL string) Metadata {
	m := Metadata{
		Title:       firstMatch(doc, titleExtractors),
		Description: firstMatch(doc, descriptionExtractors),
		Icon:        firstMatch(doc, iconExtractors),
	}
	if m.Title == "" {
		m.Title = rawURL
	}
	if m.Title == "" {
		m.Title = fallbackTitle
	}
	if m.Icon == "" {
		if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
			m.Icon = fmt.Sprintf(faviconService, u.Hostname())
		}
	}
	return m
}
