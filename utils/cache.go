package utils

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

const cacheKeyPrefix = "tc:"

// CacheTTL is the configured lifetime of cached responses; zero disables caching.
func CacheTTL(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// CacheKey namespaces a key for this service.
func CacheKey(parts ...string) string {
	return cacheKeyPrefix + strings.Join(parts, ":")
}

// CacheGetBytes returns cached bytes for a key from Redis.
func CacheGetBytes(ctx context.Context, key string) ([]byte, bool) {
	rc := GetRedis()
	if rc == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	b, err := rc.Get(ctx, key).Bytes()
	if err != nil {
		Sugar.Debugf("cache get miss key=%s err=%v", key, err)
		return nil, false
	}
	return b, true
}

// CacheSetBytes stores bytes for ttl. A non-positive ttl stores nothing.
func CacheSetBytes(ctx context.Context, key string, b []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Set(ctx, key, b, ttl).Err(); err != nil {
		Sugar.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// CacheSetJSON marshals v and stores the JSON bytes, returning them for reuse.
func CacheSetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	CacheSetBytes(ctx, key, b, ttl)
	return b, nil
}
