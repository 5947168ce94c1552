package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/campushub/backend/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisClient wraps the redis.Client with centralized connection pooling.
// A nil *RedisClient is valid everywhere: every method degrades to a miss
// or a no-op, so the service stays up when Redis is down (failure-open).
type RedisClient struct {
	client *redis.Client
}

var globalRedis *RedisClient

// NewRedisClient creates and initializes a Redis client with connection pooling
func NewRedisClient(host string, port string, password string) (*RedisClient, error) {
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "6379"
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 5,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.ErrorWithFields("Failed to connect to Redis", err)
		return nil, err
	}

	rc := &RedisClient{client: client}
	globalRedis = rc

	logger.Log.Info("Redis client connected",
		zap.String("address", addr),
	)

	return rc, nil
}

// GetRedisClient returns the global Redis client instance (nil when Redis
// was never connected)
func GetRedisClient() *RedisClient {
	return globalRedis
}

// Close closes the Redis connection gracefully
func (rc *RedisClient) Close() error {
	if rc == nil || rc.client == nil {
		return nil
	}
	return rc.client.Close()
}

// ErrCacheMiss is returned by Get when the key does not exist
var ErrCacheMiss = redis.Nil

// Get retrieves a value. Returns ErrCacheMiss when absent.
func (rc *RedisClient) Get(ctx context.Context, key string) (string, error) {
	if rc == nil || rc.client == nil {
		return "", ErrCacheMiss
	}
	return rc.client.Get(ctx, key).Result()
}

// SetEx stores a value with an expiration
func (rc *RedisClient) SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if rc == nil || rc.client == nil {
		return nil
	}
	return rc.client.Set(ctx, key, value, ttl).Err()
}

// SetNX stores a value only when the key is absent; reports whether it was set
func (rc *RedisClient) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	if rc == nil || rc.client == nil {
		return false, redis.ErrClosed
	}
	return rc.client.SetNX(ctx, key, value, ttl).Result()
}

// Del deletes one or more keys
func (rc *RedisClient) Del(ctx context.Context, keys ...string) error {
	if rc == nil || rc.client == nil || len(keys) == 0 {
		return nil
	}
	return rc.client.Del(ctx, keys...).Err()
}

// DelPattern deletes all keys matching a glob pattern, used by admin
// mutations to purge cached list pages. SCAN keeps it from blocking the
// server the way KEYS would on a large keyspace.
func (rc *RedisClient) DelPattern(ctx context.Context, pattern string) error {
	if rc == nil || rc.client == nil {
		return nil
	}

	iter := rc.client.Scan(ctx, 0, pattern, 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := rc.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return rc.client.Del(ctx, batch...).Err()
	}
	return nil
}

// Exists checks if one or more keys exist
func (rc *RedisClient) Exists(ctx context.Context, keys ...string) (int64, error) {
	if rc == nil || rc.client == nil {
		return 0, nil
	}
	return rc.client.Exists(ctx, keys...).Result()
}

// Expire sets an expiration timeout on a key
func (rc *RedisClient) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if rc == nil || rc.client == nil {
		return nil
	}
	return rc.client.Expire(ctx, key, ttl).Err()
}

// Ping tests the Redis connection
func (rc *RedisClient) Ping(ctx context.Context) error {
	if rc == nil || rc.client == nil {
		return redis.ErrClosed
	}
	return rc.client.Ping(ctx).Err()
}
