package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/light-bringer/productcat/internal/app/product/domain"
)

const defaultKeyPrefix = "productcat:exists:"

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	Addr      string        // Redis address (e.g. "localhost:6379")
	Password  string        // Redis password
	DB        int           // Redis database number
	KeyPrefix string        // Key prefix for namespacing (default: "productcat:exists:")
	TTL       time.Duration // Entry lifetime
}

// Redis stores existence results as JSON objects shared by every instance.
type Redis struct {
	client   *redis.Client
	prefix   string
	ttl      time.Duration
	recorder Recorder
}

// NewRedis creates a Redis-backed cache with its own client.
func NewRedis(cfg RedisConfig, recorder Recorder) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisFromClient(client, cfg.KeyPrefix, cfg.TTL, recorder)
}

// NewRedisFromClient creates a Redis cache using an existing client.
func NewRedisFromClient(client *redis.Client, prefix string, ttl time.Duration, recorder Recorder) *Redis {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Redis{
		client:   client,
		prefix:   prefix,
		ttl:      ttl,
		recorder: recorder,
	}
}

func (c *Redis) key(ids domain.IDSet) string {
	return c.prefix + ids.Key()
}

// Get reads and decodes the entry for ids. A missing key, or an entry without
// an answer for every id, is a miss, not an error.
func (c *Redis) Get(ctx context.Context, ids domain.IDSet) (domain.ExistenceResult, bool, error) {
	val, err := c.client.Get(ctx, c.key(ids)).Bytes()
	if err == redis.Nil {
		c.recorder.CacheMiss(BackendRedis)
		return nil, false, nil
	}
	if err != nil {
		c.recorder.CacheError(BackendRedis)
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var result domain.ExistenceResult
	if err := json.Unmarshal(val, &result); err != nil {
		c.recorder.CacheError(BackendRedis)
		return nil, false, fmt.Errorf("decode cached existence: %w", err)
	}
	if !result.Covers(ids) {
		c.recorder.CacheMiss(BackendRedis)
		return nil, false, nil
	}
	c.recorder.CacheHit(BackendRedis)
	return result, true, nil
}

// Put writes result under the key of ids with the configured TTL.
func (c *Redis) Put(ctx context.Context, ids domain.IDSet, result domain.ExistenceResult) error {
	if len(result) == 0 {
		return nil
	}

	val, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode existence: %w", err)
	}
	if err := c.client.Set(ctx, c.key(ids), val, c.ttl).Err(); err != nil {
		c.recorder.CacheError(BackendRedis)
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *Redis) Close() error {
	return c.client.Close()
}
