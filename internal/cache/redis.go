package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Terminal game statuses stay memoized for the rest of the season-week so
// finished games are never refetched.
const terminalStatusTTL = 8 * 24 * time.Hour

// RedisCache handles caching and fast state storage.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
	}, nil
}

// Close closes the Redis connection.
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client.
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify the connection.
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// GameStatus returns the memoized status for a game, or "" when unseen.
func (rc *RedisCache) GameStatus(ctx context.Context, gameID string) (string, error) {
	status, err := rc.client.Get(ctx, gameStatusKey(gameID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

// SetGameStatus memoizes a game's observed status. Terminal statuses gate
// all future fetches for the week.
func (rc *RedisCache) SetGameStatus(ctx context.Context, gameID, status string) error {
	return rc.client.Set(ctx, gameStatusKey(gameID), status, terminalStatusTTL).Err()
}

// ClearGameStatuses drops the status memos, used by the weekly rollover.
func (rc *RedisCache) ClearGameStatuses(ctx context.Context) error {
	iter := rc.client.Scan(ctx, 0, "game:*:status", 0).Iterator()
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
	return rc.client.Del(ctx, keys...).Err()
}

// Set stores a key-value pair with TTL.
func (rc *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return rc.client.Set(ctx, key, value, ttl).Err()
}

// Get retrieves a value by key.
func (rc *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return rc.client.Get(ctx, key).Result()
}

// Delete removes keys.
func (rc *RedisCache) Delete(ctx context.Context, keys ...string) error {
	return rc.client.Del(ctx, keys...).Err()
}

func gameStatusKey(gameID string) string {
	return fmt.Sprintf("game:%s:status", gameID)
}
