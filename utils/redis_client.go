package utils

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dvrpc/traffic-counts-api/config"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
	redisMu     sync.RWMutex
)

// GetRedis returns the shared Redis client, or nil when no Redis is configured
// or it was unreachable at first use.
func GetRedis() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.Get()
		if cfg.RedisHost == "" {
			return
		}
		client := redis.NewClient(&redis.Options{
			Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			Sugar.Warnf("redis unavailable, response cache disabled: %v", err)
			_ = client.Close()
			return
		}
		redisMu.Lock()
		redisClient = client
		redisMu.Unlock()
	})

	redisMu.RLock()
	defer redisMu.RUnlock()
	return redisClient
}

// SetRedis installs a client directly, skipping configuration. Passing nil
// disables caching.
func SetRedis(client *redis.Client) {
	redisOnce.Do(func() {})
	redisMu.Lock()
	redisClient = client
	redisMu.Unlock()
}
