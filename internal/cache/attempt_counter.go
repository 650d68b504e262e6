package cache

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// AttemptCounter counts hits per key in fixed windows.
type AttemptCounter struct {
	client *redisv9.Client
	prefix string
}

func NewAttemptCounter(client *redisv9.Client, prefix string) *AttemptCounter {
	return &AttemptCounter{client: client, prefix: prefix}
}

// Hit records one attempt and returns the count inside the current window.
// The window starts at the first hit.
func (c *AttemptCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	fullKey := c.prefix + ":" + key

	count, err := c.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis count attempt failed: %w", err)
	}
	if count == 1 {
		if err := c.client.Expire(ctx, fullKey, window).Err(); err != nil {
			return 0, fmt.Errorf("redis set attempt window failed: %w", err)
		}
	}
	return count, nil
}
