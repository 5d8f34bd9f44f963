package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client wraps redis.UniversalClient so repositories can take a small,
// mockable dependency
type Client interface {
	redis.UniversalClient
}
