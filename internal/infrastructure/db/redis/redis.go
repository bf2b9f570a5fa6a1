package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPingTimeout = 5 * time.Second
	defaultKeyPrefix   = "console"
)

// Config describes the Redis instance holding session tokens.
type Config struct {
	Addr     string
	Password string
	DB       int
	// PoolSize of zero keeps the client default of ten connections per CPU.
	PoolSize int
	// KeyPrefix namespaces the token keys when the instance is shared.
	KeyPrefix string
	Timeout   time.Duration
}

func (c Config) options() *redis.Options {
	return &redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
		PoolSize: c.PoolSize,
	}
}

func (c Config) keyPrefix() string {
	if c.KeyPrefix == "" {
		return defaultKeyPrefix
	}
	return c.KeyPrefix
}

// Open connects to Redis, checks it answers, and returns the token store
// together with the client so the caller can close it.
func Open(ctx context.Context, cfg Config) (*TokenStore, *redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	client := redis.NewClient(cfg.options())

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return NewTokenStore(client, cfg.keyPrefix()), client, nil
}
