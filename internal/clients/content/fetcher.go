// Package content talks to the remote content endpoint that hosts the loot
// description files: raw fetches, directory listings and file envelopes.
package content

//go:generate mockgen -destination=mock/mock_fetcher.go -package=contentmock github.com/KirkDiggler/rpg-loot/internal/clients/content Fetcher,Client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/KirkDiggler/rpg-loot/internal/errors"
	"github.com/KirkDiggler/rpg-loot/internal/pkg/metrics"
)

const (
	defaultUserAgent   = "rpg-loot"
	defaultHTTPTimeout = 30 * time.Second
	acceptHeader       = "application/vnd.github+json"

	// maxBodyBytes caps a single response; description files are small
	maxBodyBytes = 8 << 20
)

// Fetcher retrieves the raw bytes addressed by a locator
type Fetcher interface {
	// Fetch issues one request for locator and returns the response body
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// HTTPConfig contains configuration options for the HTTP fetcher.
type HTTPConfig struct {
	// UserAgent identifies the tool to the content endpoint (optional)
	UserAgent string
	// HTTPTimeout for a single request (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
	// HTTPClient overrides the client built from HTTPTimeout (optional)
	HTTPClient *http.Client
	// Metrics records request outcomes (optional)
	Metrics *metrics.Manager
}

// Validate validates the HTTPConfig and sets defaults if not provided.
func (cfg *HTTPConfig) Validate() error {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}
	if cfg.HTTPTimeout < 0 {
		return errors.InvalidArgument("http timeout must not be negative")
	}
	return nil
}

type httpFetcher struct {
	client    *http.Client
	userAgent string
	metrics   *metrics.Manager
}

// NewHTTPFetcher creates a fetcher that issues plain GET requests.
func NewHTTPFetcher(cfg *HTTPConfig) (Fetcher, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	return &httpFetcher{
		client:    client,
		userAgent: cfg.UserAgent,
		metrics:   cfg.Metrics,
	}, nil
}

func (f *httpFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	u, err := url.Parse(locator)
	if err != nil || !u.IsAbs() {
		return nil, errors.InvalidArgumentf("locator must be an absolute URL: %q", locator)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build request for %s", locator)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		f.metrics.ObserveFetch(metrics.OutcomeTransportError, time.Since(start))
		if ctx.Err() != nil {
			return nil, errors.WrapWithCode(ctx.Err(), errors.CodeCanceled, "request canceled").
				WithMeta("locator", locator)
		}
		return nil, errors.WrapWithCode(err, errors.CodeNetwork, "request failed").
			WithMeta("locator", locator)
	}
	defer func() {
		_ = resp.Body.Close() // nolint:errcheck // body already consumed
	}()

	slog.DebugContext(ctx, "fetched locator",
		"locator", locator,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.metrics.ObserveFetch(metrics.OutcomeBadStatus, time.Since(start))
		return nil, errors.Networkf("unexpected status %d", resp.StatusCode).
			WithMeta("locator", locator).
			WithMeta("status", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		f.metrics.ObserveFetch(metrics.OutcomeTransportError, time.Since(start))
		return nil, errors.WrapWithCode(err, errors.CodeNetwork, "failed to read response body").
			WithMeta("locator", locator)
	}
	if len(body) > maxBodyBytes {
		f.metrics.ObserveFetch(metrics.OutcomeTransportError, time.Since(start))
		return nil, errors.Networkf("response exceeds %d bytes", maxBodyBytes).
			WithMeta("locator", locator)
	}

	f.metrics.ObserveFetch(metrics.OutcomeOK, time.Since(start))
	return body, nil
}
