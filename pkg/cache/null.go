package cache

import (
	"context"
	"time"
)

// NullCache never stores anything; every Get is a miss. It backs runs with
// caching disabled.
type NullCache struct{}

// NewNullCache returns a cache that discards all writes.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
