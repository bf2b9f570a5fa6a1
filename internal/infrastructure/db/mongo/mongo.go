package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultCollection     = "console_events"
	appName               = "dhcp-console"
)

// Config describes where the audit trail is written.
type Config struct {
	URI      string
	Database string
	// Collection defaults to console_events.
	Collection string
	Timeout    time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultConnectTimeout
	}
	return c.Timeout
}

func (c Config) collection() string {
	if c.Collection == "" {
		return defaultCollection
	}
	return c.Collection
}

func (c Config) clientOptions() *options.ClientOptions {
	return options.Client().
		ApplyURI(c.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(c.timeout())
}

// Open connects to MongoDB, checks it answers, and returns the audit
// repository bound to the events collection. The client is returned so the
// caller can disconnect it on shutdown.
func Open(ctx context.Context, cfg Config) (*AuditRepository, *mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, cfg.clientOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	col := client.Database(cfg.Database).Collection(cfg.collection())
	return NewAuditRepository(col), client, nil
}
