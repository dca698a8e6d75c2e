package lib

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the cache at the given URL. A missing or
// unreachable cache is not fatal: callers treat a nil client as
// "caching disabled" and hit the database directly.
func NewRedisClient(url string) *redis.Client {
	if url == "" {
		log.Println("[redis] No connection string configured, cache disabled")
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[redis] Ping failed, cache disabled: %s\n", err.Error())
		return nil
	}
	return rdb
}
