// Package cache stores serialized engine results keyed by a hash of their
// inputs and options.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance
//   - [NullCache]: a no-op used with --no-cache and in tests
//
// Keys are produced by a [Keyer] so that the same inputs and options always
// map to the same entry:
//
//	k := cache.NewDefaultKeyer()
//	key := k.AnalysisKey(cache.Hash(input), cache.AnalysisKeyOpts{Repetitions: 2001, Seed: 7})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// Get reports a miss with hit == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
