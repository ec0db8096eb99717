package blacklist

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBlacklist implements Blacklist on Redis. Entries live under
// blacklist:<jti> with a TTL bounded by the token's natural expiry, so
// revocation records clean themselves up.
type RedisBlacklist struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisBlacklist(redisURL string) (*RedisBlacklist, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisBlacklist{
		client: client,
		ctx:    ctx,
	}, nil
}

// NewRedisBlacklistWithClient wraps an existing client (shared with the
// rate limiter in the server wiring).
func NewRedisBlacklistWithClient(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{
		client: client,
		ctx:    context.Background(),
	}
}

func (b *RedisBlacklist) Add(jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already past natural expiry; nothing to revoke.
		return nil
	}
	return b.client.Set(b.ctx, "blacklist:"+jti, "1", ttl).Err()
}

func (b *RedisBlacklist) Contains(jti string) (bool, error) {
	n, err := b.client.Exists(b.ctx, "blacklist:"+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (b *RedisBlacklist) Close() error {
	return b.client.Close()
}

// Client exposes the underlying connection for components that share it.
func (b *RedisBlacklist) Client() *redis.Client {
	return b.client
}
