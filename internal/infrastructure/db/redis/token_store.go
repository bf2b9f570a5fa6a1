package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenCmds is the part of the redis client the token store needs.
type tokenCmds interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// TokenStore keeps one bearer token per browser session.
// Key format: <prefix>:session:<session_id>:token
type TokenStore struct {
	client tokenCmds
	prefix string
}

// NewTokenStore creates a TokenStore wrapping the given Redis client. An
// empty prefix falls back to "console".
func NewTokenStore(client *redis.Client, prefix string) *TokenStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &TokenStore{client: client, prefix: prefix}
}

// Load returns "" and no error when the session has no token.
func (s *TokenStore) Load(ctx context.Context, sessionID string) (string, error) {
	token, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("token load: %w", err)
	}
	return token, nil
}

// Save stores token for ttl. A non-positive ttl stores it without expiry.
func (s *TokenStore) Save(ctx context.Context, sessionID, token string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.key(sessionID), token, ttl).Err(); err != nil {
		return fmt.Errorf("token save: %w", err)
	}
	return nil
}

func (s *TokenStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("token delete: %w", err)
	}
	return nil
}

func (s *TokenStore) key(sessionID string) string {
	return fmt.Sprintf("%s:session:%s:token", s.prefix, sessionID)
}
