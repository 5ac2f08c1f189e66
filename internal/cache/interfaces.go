package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

type ICache interface {
	RegisterPlatform(id string) error
	DeleteInactivePlatform() error
	CountActivePlatforms() (int64, error)
	StartIdentityTicker(id string)

	GetRateLimit(userIdentifier string, requestsPerMinute int) (int, error)

	// Get returns ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPattern removes every key matching a glob pattern and returns how many were removed.
	DeleteByPattern(ctx context.Context, pattern string) (int, error)

	TryAcquireLock(key string, instanceID string, ttlSeconds int) (bool, error)
	RefreshLock(key string, instanceID string, ttlSeconds int) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}
