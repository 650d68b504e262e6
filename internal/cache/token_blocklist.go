package cache

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// TokenBlocklist remembers revoked token ids until the tokens expire.
type TokenBlocklist struct {
	client *redisv9.Client
}

func NewTokenBlocklist(client *redisv9.Client) *TokenBlocklist {
	return &TokenBlocklist{client: client}
}

func (b *TokenBlocklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis revoke token failed: %w", err)
	}
	return nil
}

func (b *TokenBlocklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := b.client.Exists(ctx, b.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check revoked token failed: %w", err)
	}
	return exists > 0, nil
}

func (b *TokenBlocklist) key(tokenID string) string {
	return "auth:revoked:" + tokenID
}
