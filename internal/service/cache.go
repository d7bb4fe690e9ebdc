package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// readCache loads a JSON value from Redis; a miss or unusable entry reports false.
func readCache[T any](ctx context.Context, client *redis.Client, key string, logger zerolog.Logger) (T, bool) {
	var value T
	if client == nil {
		return value, false
	}

	cached, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn().Err(err).Str("key", key).Msg("failed to read cache")
		}
		return value, false
	}

	if err := json.Unmarshal(cached, &value); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("discarding malformed cache entry")
		return value, false
	}
	return value, true
}

func writeCache(ctx context.Context, client *redis.Client, key string, value interface{}, ttl time.Duration, logger zerolog.Logger) {
	if client == nil || ttl <= 0 {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("failed to encode cache entry")
		return
	}
	if err := client.Set(ctx, key, payload, ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("failed to store cache entry")
	}
}

func deleteCache(ctx context.Context, client *redis.Client, logger zerolog.Logger, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn().Err(err).Strs("keys", keys).Msg("failed to invalidate cache")
	}
}
