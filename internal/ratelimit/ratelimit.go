package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTooManyAttempts = errors.New("too many attempts")

// Limiter counts actions per key in fixed Redis windows. A nil Limiter allows everything.
type Limiter struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
}

func New(client *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{
		redis:  client,
		limit:  int64(limit),
		window: window,
	}
}

// NewFromURL connects to the Redis server at url and pings it.
func NewFromURL(ctx context.Context, url string, limit int, window time.Duration) (*Limiter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return New(client, limit, window), nil
}

// CheckVerify counts one enrollment verification by the given operator.
func (l *Limiter) CheckVerify(ctx context.Context, operatorID string) error {
	return l.check(ctx, fmt.Sprintf("verify_attempts:%s", operatorID))
}

func (l *Limiter) check(ctx context.Context, key string) error {
	if l == nil || l.redis == nil || l.limit <= 0 {
		return nil
	}

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to count attempt: %w", err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("failed to set attempt window: %w", err)
		}
	}

	if count > l.limit {
		return ErrTooManyAttempts
	}
	return nil
}

func (l *Limiter) Close() error {
	if l == nil || l.redis == nil {
		return nil
	}
	return l.redis.Close()
}
