package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"time"          // Time durations

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9" // Redis client
)

// Cache is a JSON read-through cache in Redis. A Cache without a client
// is valid and always misses.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache wraps rdb (may be nil) with a default TTL
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get retrieves a value from Redis and unmarshals it into dest
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil || c.rdb == nil {
		return false, nil
	}
	val, err := c.rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// Set stores a value in Redis with the cache TTL
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// DeletePrefix removes every key starting with prefix
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// WalletKey is the cache key of a user's wallet
func WalletKey(userID uuid.UUID) string {
	return "wallet:user:" + userID.String()
}

// TxHistoryPrefix prefixes every cached page of a user's transactions
func TxHistoryPrefix(userID uuid.UUID) string {
	return "txhistory:user:" + userID.String()
}

// StatsKey is the cache key of the platform stats rollup
const StatsKey = "admin:stats"

// InvalidateUser drops everything cached about a user's balance and
// history along with the platform rollups that include it
func (c *Cache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, WalletKey(userID), StatsKey).Err(); err != nil {
		return err
	}
	if err := c.DeletePrefix(ctx, TxHistoryPrefix(userID)); err != nil {
		return err
	}
	return c.DeletePrefix(ctx, "admin:users:")
}
