package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yegamble/licensevault/internal/application/cache"
)

// Cache implements cache.Cache on top of a Client: the typed contract
// consumed by the session store, token service, and throttle engine.
type Cache struct {
	client *Client
}

// NewCache wraps client as a cache.Cache.
func NewCache(client *Client) *Cache {
	return &Cache{client: client}
}

var _ cache.Cache = (*Cache)(nil)

func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, goredis.Nil) {
		return cache.ErrKeyNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", cache.ErrCacheUnavailable, err)
	}
	return fmt.Errorf("%w: %v", cache.ErrCacheUnavailable, err)
}

// Set stores value JSON-encoded under key.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal value for key %s: %w", key, err)
	}
	if err := c.client.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return translateErr(err)
	}
	return nil
}

// Get decodes the value stored at key into dest.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return translateErr(err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache: unmarshal value for key %s: %w", key, err)
	}
	return nil
}

// Delete removes one or more keys.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.rdb.Del(ctx, keys...).Err(); err != nil {
		return translateErr(err)
	}
	return nil
}

// Exists reports whether key is present.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.client.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, translateErr(err)
	}
	return count > 0, nil
}

// Increment atomically increments key, applying ttlOnCreate only when the
// key was just created by this call.
func (c *Cache) Increment(ctx context.Context, key string, ttlOnCreate time.Duration) (int64, error) {
	pipe := c.client.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, translateErr(err)
	}

	count := incr.Val()
	if count == 1 && ttlOnCreate > 0 {
		if err := c.client.rdb.Expire(ctx, key, ttlOnCreate).Err(); err != nil {
			return count, translateErr(err)
		}
	}
	return count, nil
}

// SearchKeys returns every key matching pattern via cursor SCAN.
func (c *Cache) SearchKeys(ctx context.Context, pattern string) ([]string, error) {
	var (
		cursor uint64
		found  []string
	)
	for {
		keys, next, err := c.client.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return nil, translateErr(err)
		}
		found = append(found, keys...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return found, nil
}

// invalidationChannel is the pub/sub channel used for cache invalidation
// broadcasts across nodes.
const invalidationChannel = "licensevault:cache:invalidate"

// PublishInvalidation publishes a best-effort invalidation notice for pattern.
func (c *Cache) PublishInvalidation(ctx context.Context, pattern string) error {
	if err := c.client.rdb.Publish(ctx, invalidationChannel, pattern).Err(); err != nil {
		return translateErr(err)
	}
	return nil
}

// SubscribeInvalidations blocks, invoking handler for every invalidation
// notice received until ctx is cancelled.
func (c *Cache) SubscribeInvalidations(ctx context.Context, handler cache.InvalidationHandler) error {
	sub := c.client.rdb.Subscribe(ctx, invalidationChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			handler(msg.Payload)
		}
	}
}

// Refresh extends key's TTL without rewriting its value.
func (c *Cache) Refresh(ctx context.Context, key string, ttl time.Duration) error {
	if err := c.client.rdb.Expire(ctx, key, ttl).Err(); err != nil {
		return translateErr(err)
	}
	return nil
}
