package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stream names consumed by downstream league clients.
const (
	streamLiveScores = "scores.live.football_nfl"
	streamFinalGames = "games.final.football_nfl"
)

// RedisPublisher publishes scoring events to Redis streams.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a publisher with its own connection.
func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
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

	return &RedisPublisher{client: client}, nil
}

// NewFromClient wraps an existing Redis client.
func NewFromClient(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Close closes the Redis connection.
func (rp *RedisPublisher) Close() error {
	return rp.client.Close()
}

// PublishScoreUpdate pushes a per-pass score update for live games.
func (rp *RedisPublisher) PublishScoreUpdate(ctx context.Context, update interface{}) error {
	return rp.publish(ctx, streamLiveScores, update)
}

// PublishFinalGame pushes a newly-terminal game's summary.
func (rp *RedisPublisher) PublishFinalGame(ctx context.Context, game interface{}) error {
	return rp.publish(ctx, streamFinalGames, game)
}

func (rp *RedisPublisher) publish(ctx context.Context, stream string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return rp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
