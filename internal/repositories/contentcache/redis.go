package contentcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-loot/internal/errors"
	"github.com/KirkDiggler/rpg-loot/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-loot/internal/redis"
)

const (
	// Key pattern: content_cache:{sha256(locator)}
	keyPrefix  = "content_cache:"
	defaultTTL = 1 * time.Hour

	// Error messages
	errLocatorEmpty = "locator cannot be empty"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for cached content
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Get returns the cached body for a locator
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.Locator == "" {
		return nil, errors.InvalidArgument(errLocatorEmpty)
	}

	data, err := r.client.Get(ctx, buildKey(input.Locator)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFound("content not cached").WithMeta("locator", input.Locator)
		}
		return nil, errors.Wrapf(err, "failed to get content from Redis")
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal cached content")
	}

	return &GetOutput{Entry: &entry}, nil
}

// Put stores a body with the given TTL
func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if input.Locator == "" {
		return nil, errors.InvalidArgument(errLocatorEmpty)
	}

	ttl := input.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	entry := &Entry{
		Locator:  input.Locator,
		Body:     input.Body,
		StoredAt: r.clock.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal cached content")
	}

	if err := r.client.Set(ctx, buildKey(input.Locator), data, ttl).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to store content in Redis")
	}

	return &PutOutput{Entry: entry}, nil
}

// buildKey hashes the locator so keys stay short and free of separators
func buildKey(locator string) string {
	sum := sha256.Sum256([]byte(locator))
	return keyPrefix + hex.EncodeToString(sum[:])
}
