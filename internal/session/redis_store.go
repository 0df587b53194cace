package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mouradf/it-asset-tracker/internal/utils"
)

// RedisStore keeps sessions in Redis with a per-key TTL, so expiry needs no
// sweeper and sessions survive process restarts.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore builds a Redis-backed session store around an existing
// client. The ttl is fixed at creation time for every session.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl, prefix: "session:"}
}

// Create writes a token -> identity mapping with TTL.
func (s *RedisStore) Create(ctx context.Context, id Identity) (string, error) {
	token, err := utils.NewSessionToken()
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.prefix+token, payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Get resolves a token to its identity claims.
func (s *RedisStore) Get(ctx context.Context, token string) (Identity, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, err
	}
	var id Identity
	if err := json.Unmarshal(val, &id); err != nil {
		// An unreadable payload is treated as no session rather than a 500.
		return Identity{}, false, nil
	}
	return id, true, nil
}

// Destroy removes a token mapping.
func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.prefix+token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
