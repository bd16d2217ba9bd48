package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList answers whether an access token was withdrawn before it expired.
// Entries are written by the identity service that issues the tokens.
type RevocationList interface {
	// IsRevoked reports whether the token with this JTI was revoked
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// RevokedForUser reports whether the user's sessions were cut off at or after issuedAt
	RevokedForUser(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const revocationKeyPrefix = "token:revoked:"

// RevokedTokenKey is the Redis key marking a revoked JTI
func RevokedTokenKey(jti string) string {
	return revocationKeyPrefix + "jti:" + jti
}

// RevokedUserKey is the Redis key holding the Unix time a user's sessions were cut off
func RevokedUserKey(userID string) string {
	return revocationKeyPrefix + "user:" + userID
}

// RedisRevocationList reads revocations from the shared Redis
type RedisRevocationList struct {
	client redis.Cmdable
}

// NewRedisRevocationList creates a revocation list on a shared Redis client
func NewRedisRevocationList(client redis.Cmdable) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

// IsRevoked implements RevocationList
func (l *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := l.client.Exists(ctx, RevokedTokenKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}

// RevokedForUser implements RevocationList
func (l *RedisRevocationList) RevokedForUser(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	cutoff, err := l.client.Get(ctx, RevokedUserKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user revocation: %w", err)
	}
	return issuedAt.Unix() <= cutoff, nil
}

var _ RevocationList = (*RedisRevocationList)(nil)
