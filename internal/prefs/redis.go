package prefs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "portfolio:prefs:" // portfolio:prefs:{visitor_id}:{key}
	redisTTL       = 365 * 24 * time.Hour
)

// RedisBackend stores preferences as plain string keys with a one year TTL,
// refreshed on every write.
type RedisBackend struct {
	client *redis.Client
}

func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (b *RedisBackend) ForVisitor(visitorID string) Store {
	return &redisStore{client: b.client, visitor: visitorID}
}

type redisStore struct {
	client  *redis.Client
	visitor string
}

func (s *redisStore) key(key string) string {
	return redisKeyPrefix + s.visitor + ":" + key
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get preference %q: %w", key, err)
	}
	return value, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, redisTTL).Err(); err != nil {
		return fmt.Errorf("failed to set preference %q: %w", key, err)
	}
	return nil
}
