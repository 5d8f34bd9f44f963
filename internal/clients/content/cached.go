package content

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-loot/internal/errors"
	"github.com/KirkDiggler/rpg-loot/internal/pkg/metrics"
	"github.com/KirkDiggler/rpg-loot/internal/repositories/contentcache"
)

// CachedConfig holds the dependencies for a caching fetcher
type CachedConfig struct {
	Fetcher Fetcher
	Cache   contentcache.Repository
	// TTL of stored bodies (optional, repository default when zero)
	TTL     time.Duration
	Metrics *metrics.Manager
}

// Validate ensures all required dependencies are provided
func (c *CachedConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Fetcher == nil {
		vb.RequiredField("Fetcher")
	}
	if c.Cache == nil {
		vb.RequiredField("Cache")
	}
	if c.TTL < 0 {
		vb.InvalidField("TTL", "must not be negative")
	}

	return vb.Build()
}

type cachedFetcher struct {
	next    Fetcher
	cache   contentcache.Repository
	ttl     time.Duration
	metrics *metrics.Manager
}

// NewCachedFetcher wraps a fetcher with a read-through cache. Cache failures
// never fail a fetch; they are logged and the request goes to the network.
func NewCachedFetcher(cfg *CachedConfig) (Fetcher, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &cachedFetcher{
		next:    cfg.Fetcher,
		cache:   cfg.Cache,
		ttl:     cfg.TTL,
		metrics: cfg.Metrics,
	}, nil
}

func (f *cachedFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	out, err := f.cache.Get(ctx, contentcache.GetInput{Locator: locator})
	switch {
	case err == nil && out != nil && out.Entry != nil:
		f.metrics.CacheHit()
		return out.Entry.Body, nil
	case err != nil && !errors.IsNotFound(err):
		slog.WarnContext(ctx, "content cache read failed",
			"locator", locator,
			"error", err)
	}
	f.metrics.CacheMiss()

	body, err := f.next.Fetch(ctx, locator)
	if err != nil {
		return nil, err
	}

	if _, err := f.cache.Put(ctx, contentcache.PutInput{
		Locator: locator,
		Body:    body,
		TTL:     f.ttl,
	}); err != nil {
		slog.WarnContext(ctx, "content cache write failed",
			"locator", locator,
			"error", err)
	}

	return body, nil
}
