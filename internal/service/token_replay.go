package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenReplayGuard remembers CAPTCHA tokens that have already been presented.
type TokenReplayGuard interface {
	// Claim returns false when the token was seen before.
	Claim(ctx context.Context, token string) (bool, error)
}

// RedisTokenReplayGuard stores token digests in Redis for a fixed TTL.
type RedisTokenReplayGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTokenReplayGuard constructs a guard. Tokens are forgotten after ttl.
func NewRedisTokenReplayGuard(client *redis.Client, ttl time.Duration) *RedisTokenReplayGuard {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisTokenReplayGuard{client: client, ttl: ttl}
}

// Claim marks the token as consumed.
func (g *RedisTokenReplayGuard) Claim(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("contact:captcha:%s", tokenDigest(token))
	ok, err := g.client.SetNX(ctx, key, 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim captcha token: %w", err)
	}
	return ok, nil
}
