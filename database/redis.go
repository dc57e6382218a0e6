package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	REDIS_REVOKED_TOKEN_PREFIX = "crm:auth:revoked:"
	REDIS_CACHE_PREFIX         = "crm:cache:"
)

var redisClient *redis.Client

func ConnectRedis(ctx context.Context, uri string) error {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return fmt.Errorf("[Redis] invalid uri: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("[Redis] ping: %w", err)
	}

	redisClient = client
	return nil
}

// UseRedis swaps the client; tests point it at a fake server.
func UseRedis(client *redis.Client) {
	redisClient = client
}

func CloseRedis() error {
	if redisClient == nil {
		return nil
	}
	return redisClient.Close()
}

// RevokeToken blacklists a token id until it would have expired anyway.
// Without Redis, revocation is unavailable and a nil error is returned.
func RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if redisClient == nil {
		return nil
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	return redisClient.Set(ctx, REDIS_REVOKED_TOKEN_PREFIX+tokenID, "1", ttl).Err()
}

func IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if redisClient == nil {
		return false, nil
	}

	n, err := redisClient.Exists(ctx, REDIS_REVOKED_TOKEN_PREFIX+tokenID).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// CacheGet decodes the cached JSON value of key into v. It reports false
// on a miss or when no cache is configured.
func CacheGet(ctx context.Context, key string, v any) (bool, error) {
	if redisClient == nil {
		return false, nil
	}

	raw, err := redisClient.Get(ctx, REDIS_CACHE_PREFIX+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return false, err
	}

	return true, nil
}

func CacheSet(ctx context.Context, key string, v any, ttl time.Duration) error {
	if redisClient == nil {
		return nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return redisClient.Set(ctx, REDIS_CACHE_PREFIX+key, raw, ttl).Err()
}
