package app

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/esop/dhcp-console/internal/core/ports"
	"github.com/esop/dhcp-console/internal/infrastructure/auditlog"
	mongostore "github.com/esop/dhcp-console/internal/infrastructure/db/mongo"
	redisstore "github.com/esop/dhcp-console/internal/infrastructure/db/redis"
	"github.com/esop/dhcp-console/internal/infrastructure/http/handlers"
	"github.com/esop/dhcp-console/internal/infrastructure/queue"
	"github.com/esop/dhcp-console/internal/infrastructure/tokenstore"
	"github.com/esop/dhcp-console/internal/pkg/config"
)

// Infra holds the stores the console persists to.
type Infra struct {
	Tokens ports.TokenStore
	Audit  *queue.Dispatcher
	// Pingers are reported by the readiness probe.
	Pingers map[string]handlers.Pinger

	redis *goredis.Client
	mongo *gomongo.Client
}

func setupInfra(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Infra, error) {
	infra := &Infra{Pingers: make(map[string]handlers.Pinger)}

	var tokens ports.TokenStore
	switch cfg.Session.TokenStore {
	case config.TokenStoreRedis:
		store, client, err := redisstore.Open(ctx, redisstore.Config{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			PoolSize:  cfg.Redis.PoolSize,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		infra.redis = client
		infra.Pingers["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		tokens = store
		log.Info().Str("addr", cfg.Redis.Addr).Str("prefix", cfg.Redis.KeyPrefix).Msg("redis ready")
	default:
		tokens = tokenstore.NewMemory()
		log.Warn().Msg("tokens are kept in memory and will not survive a restart")
	}

	if cfg.Session.Secret != "" {
		sealed, err := tokenstore.NewSealed(tokens, cfg.Session.Secret)
		if err != nil {
			_ = infra.close(ctx)
			return nil, err
		}
		tokens = sealed
	}
	infra.Tokens = tokens

	var repo ports.AuditRepository
	if cfg.Mongo.URI != "" {
		audit, client, err := mongostore.Open(ctx, mongostore.Config{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			_ = infra.close(ctx)
			return nil, err
		}
		infra.mongo = client
		if err := audit.EnsureIndexes(ctx); err != nil {
			_ = infra.close(ctx)
			return nil, fmt.Errorf("audit indexes: %w", err)
		}
		infra.Pingers["mongodb"] = audit.Ping
		repo = audit
		log.Info().Str("database", cfg.Mongo.Database).Str("collection", cfg.Mongo.Collection).Msg("mongodb ready")
	} else {
		repo = auditlog.New(log)
		log.Info().Msg("audit trail goes to the log")
	}

	infra.Audit = queue.NewDispatcher(cfg.Audit.Workers, repo, log)
	return infra, nil
}

// close drains the audit queue and releases the store connections.
func (i *Infra) close(ctx context.Context) error {
	var errs []error
	if i.Audit != nil {
		errs = append(errs, i.Audit.Shutdown(ctx))
	}
	if i.mongo != nil {
		errs = append(errs, i.mongo.Disconnect(ctx))
	}
	if i.redis != nil {
		errs = append(errs, i.redis.Close())
	}
	return errors.Join(errs...)
}
