// Package cache defines the key-value store contract shared by the session
// store, token service, and throttle engine. Concrete implementations live
// under internal/infrastructure/persistence/redis.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheUnavailable is returned by every Cache operation when the backing
// store cannot be reached. Callers surface this rather than falling back to
// stale truth.
var ErrCacheUnavailable = errors.New("cache: backing store unavailable")

// ErrKeyNotFound is returned by Get when the key does not exist.
var ErrKeyNotFound = errors.New("cache: key not found")

// InvalidationHandler is invoked with the pattern that was published for
// subscribers of SubscribeInvalidations. Handlers may be invoked on any node
// in a cluster and must not block the caller.
type InvalidationHandler func(pattern string)

// Cache is a typed key-value contract with TTL, atomic increment, pattern
// scanning, and pub/sub invalidation. Every operation accepts a
// context.Context as its cancellation signal.
type Cache interface {
	// Set stores value (JSON-encoded) under key. ttl of 0 means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Get decodes the value stored at key into dest (a pointer).
	// Returns ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string, dest interface{}) error

	// Delete removes one or more keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Increment atomically increments the integer at key by 1 and returns
	// the new value. If the key did not exist, it is created with value 1
	// and, when ttlOnCreate > 0, that TTL is applied. An existing key's TTL
	// is left untouched.
	Increment(ctx context.Context, key string, ttlOnCreate time.Duration) (int64, error)

	// SearchKeys returns every key matching pattern using a non-blocking
	// cursor scan (never KEYS).
	SearchKeys(ctx context.Context, pattern string) ([]string, error)

	// PublishInvalidation publishes a best-effort invalidation notice for
	// pattern to every subscribed node.
	PublishInvalidation(ctx context.Context, pattern string) error

	// SubscribeInvalidations runs handler for every invalidation notice
	// received until ctx is cancelled. It blocks the calling goroutine.
	SubscribeInvalidations(ctx context.Context, handler InvalidationHandler) error

	// Refresh extends key's TTL to ttl without rewriting its value
	// (sliding expiration).
	Refresh(ctx context.Context, key string, ttl time.Duration) error
}
