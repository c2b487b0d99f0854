package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "folio:session:"

// RedisStore backs sessions with Redis so multiple instances can share them.
// The key TTL carries the absolute expiry, so there is nothing to sweep.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore on top of an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

// Create registers a new session for userID and returns its opaque token.
func (s *RedisStore) Create(userID string) (string, error) {
	token := uuid.New().String()
	ctx := context.Background()
	if err := s.client.Set(ctx, redisKeyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Resolve returns the user ID behind token, or ErrNoSession if the key is
// gone (unknown token, or the TTL ran out).
func (s *RedisStore) Resolve(token string) (string, error) {
	ctx := context.Background()
	userID, err := s.client.Get(ctx, redisKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}
	return userID, nil
}

// Destroy invalidates token immediately. Deleting a missing key is a no-op.
func (s *RedisStore) Destroy(token string) error {
	ctx := context.Background()
	if err := s.client.Del(ctx, redisKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
