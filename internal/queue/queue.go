// Package queue is the trigger mechanism between job submission and the
// analysis worker. Delivery is at-least-once: a consumer crash between
// BRPOP and the claim can make another delivery observe the same job id,
// so consumers must treat a failed claim as a no-op.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrClosed is returned by Receive once the queue is closed.
var ErrClosed = errors.New("queue closed")

// Queue carries job ids from the enqueue endpoint to the worker runner.
type Queue interface {
	// Publish appends a job id for processing.
	Publish(ctx context.Context, jobID uuid.UUID) error
	// Receive blocks until a job id is available or ctx is done.
	Receive(ctx context.Context) (uuid.UUID, error)
}

const popTimeout = 5 * time.Second

// RedisQueue implements Queue over a Redis list (LPUSH/BRPOP).
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue creates a RedisQueue from a Redis URL and list key.
func NewRedisQueue(redisURL, key string) (*RedisQueue, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisQueue{client: redis.NewClient(opts), key: key}, nil
}

func (q *RedisQueue) Publish(ctx context.Context, jobID uuid.UUID) error {
	return q.client.LPush(ctx, q.key, jobID.String()).Err()
}

// Receive loops short BRPOP calls so ctx cancellation is observed within
// popTimeout even while the list is empty.
func (q *RedisQueue) Receive(ctx context.Context) (uuid.UUID, error) {
	for {
		if err := ctx.Err(); err != nil {
			return uuid.Nil, err
		}

		vals, err := q.client.BRPop(ctx, popTimeout, q.key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return uuid.Nil, ctx.Err()
			}
			return uuid.Nil, err
		}

		// BRPOP returns [key, value]
		id, err := uuid.Parse(vals[1])
		if err != nil {
			// Malformed entry; drop it rather than wedge the consumer.
			continue
		}
		return id, nil
	}
}

func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}

var _ Queue = (*RedisQueue)(nil)
