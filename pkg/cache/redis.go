package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis under a key prefix. Network failures
// are retried with backoff; a missing key is a miss.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// RedisOptions configures NewRedisCache.
type RedisOptions struct {
	// URL is a redis:// or rediss:// URL. It takes precedence over Addr.
	URL  string
	Addr string
	// Prefix is prepended to every key, "dplace:" when empty.
	Prefix string
}

// NewRedisCache connects to Redis and verifies the connection with PING.
func NewRedisCache(ctx context.Context, o RedisOptions) (*RedisCache, error) {
	var opts *redis.Options
	switch {
	case o.URL != "":
		var err error
		if opts, err = redis.ParseURL(o.URL); err != nil {
			return nil, fmt.Errorf("redis url: %w", err)
		}
	case o.Addr != "":
		opts = &redis.Options{Addr: o.Addr}
	default:
		return nil, fmt.Errorf("redis: no address configured")
	}
	if o.Prefix == "" {
		o.Prefix = "dplace:"
	}

	c := &RedisCache{client: redis.NewClient(opts), prefix: o.Prefix}
	err := RetryWithBackoff(ctx, func() error {
		return classify(c.client.Ping(ctx).Err())
	})
	if err != nil {
		c.client.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, opts.Addr, err)
	}
	return c, nil
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	hit := false
	err := RetryWithBackoff(ctx, func() error {
		b, err := c.client.Get(ctx, c.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return classify(err)
		}
		data, hit = b, true
		return nil
	})
	return data, hit, err
}

// Set stores a value in Redis. A zero ttl stores without expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return RetryWithBackoff(ctx, func() error {
		return classify(c.client.Set(ctx, c.prefix+key, data, ttl).Err())
	})
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return RetryWithBackoff(ctx, func() error {
		return classify(c.client.Del(ctx, c.prefix+key).Err())
	})
}

// Close closes the client connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// classify marks network errors as retryable.
func classify(err error) error {
	var ne net.Error
	if errors.As(err, &ne) {
		return Retryable(err)
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
