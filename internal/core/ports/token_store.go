package ports

import (
	"context"
	"time"
)

// TokenStore persists the bearer token of each browser session under a
// fixed per-session key. Load returns "" and a nil error when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context, sessionID string) (string, error)
	Save(ctx context.Context, sessionID, token string, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}
