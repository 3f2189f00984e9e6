// Package cache stores improvement results keyed by design content and run
// options, so that repeated runs on an unchanged design skip the engine.
//
// Three backends implement [Cache]:
//   - [NullCache] stores nothing (caching disabled)
//   - [FileCache] keeps one JSON file per entry under a directory
//   - [RedisCache] talks to a Redis server through go-redis
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes the options so that any
// change to seed, displacement limits, gap policy or script yields a new key.
package cache

import (
	"context"
	"time"
)

// TTLResult is how long an improvement result stays cached.
const TTLResult = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
//
// Get reports a miss with hit == false and a nil error. Backends treat a
// corrupt or expired entry as a miss.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
