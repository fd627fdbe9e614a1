package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList records session token ids (jti) invalidated by logout.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocationList keeps revoked ids in Redis until the token would have
// expired anyway. A nil client turns every call into a no-op.
type RedisRevocationList struct {
	client *redis.Client
	prefix string
}

// NewRedisRevocationList creates a revocation list. Prefix may be empty.
func NewRedisRevocationList(client *redis.Client, prefix string) *RedisRevocationList {
	if prefix == "" {
		prefix = "revoked:session:"
	}
	return &RedisRevocationList{client: client, prefix: prefix}
}

func (r *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if r == nil || r.client == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.prefix+jti, "1", ttl).Err()
}

func (r *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if r == nil || r.client == nil || jti == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, r.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
