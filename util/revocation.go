package util

import (
	"context"
	"fmt"
	"time"

	"github.com/ariebrainware/therapist-booking/config"
	"github.com/redis/go-redis/v9"
)

// Revoked token ids live in Redis until the token would have expired anyway.
// Every function is a no-op when Redis is not configured.

func revokedTokenKey(jti string) string {
	return "revoked_token:" + jti
}

func userTokensKey(userID uint) string {
	return fmt.Sprintf("user_tokens:%d", userID)
}

// TrackToken remembers jti under userID so RevokeUserTokens can find it.
func TrackToken(ctx context.Context, userID uint, jti string, ttl time.Duration) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	key := userTokensKey(userID)
	if err := rdb.SAdd(ctx, key, jti).Err(); err != nil {
		return err
	}
	return rdb.Expire(ctx, key, ttl).Err()
}

// RevokeToken marks jti as revoked for ttl.
func RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	rdb := config.GetRedisClient()
	if rdb == nil || ttl <= 0 {
		return nil
	}
	return rdb.Set(ctx, revokedTokenKey(jti), "1", ttl).Err()
}

// IsTokenRevoked reports whether jti was revoked.
func IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return false, nil
	}
	n, err := rdb.Exists(ctx, revokedTokenKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RevokeUserTokens revokes every tracked token of userID, used when the
// account is deleted or its password changes.
func RevokeUserTokens(ctx context.Context, userID uint, ttl time.Duration) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	key := userTokensKey(userID)
	members, err := rdb.SMembers(ctx, key).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	for _, jti := range members {
		if err := rdb.Set(ctx, revokedTokenKey(jti), "1", ttl).Err(); err != nil {
			return err
		}
	}
	return rdb.Del(ctx, key).Err()
}
