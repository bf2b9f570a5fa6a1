package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	TokenStoreRedis  = "redis"
	TokenStoreMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Session SessionConfig
	Audit   AuditConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// APIConfig points at the remote DHCP/user API.
type APIConfig struct {
	BaseURL string `env:"API_BASE_URL, default=http://localhost:8000"`
	// Timeout of 0 leaves requests unbounded.
	Timeout time.Duration `env:"API_TIMEOUT, default=0"`
}

type SessionConfig struct {
	TokenStore string `env:"TOKEN_STORE, default=redis"`
	// TokenTTL applies to tokens that carry no exp claim.
	TokenTTL     time.Duration `env:"TOKEN_TTL,        default=24h"`
	Secret       string        `env:"SESSION_SECRET"`
	CookieSecure bool          `env:"COOKIE_SECURE,    default=false"`
	ResolveWait  time.Duration `env:"RESOLVE_WAIT,     default=2s"`
	IdleTTL      time.Duration `env:"SESSION_IDLE_TTL, default=30m"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	// An empty URI sends the audit trail to the log instead.
	URI        string `env:"MONGO_URI"`
	Database   string `env:"MONGO_DB,         default=dhcp_console"`
	Collection string `env:"MONGO_COLLECTION, default=console_events"`
}

type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR,       default=localhost:6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB,         default=0"`
	PoolSize  int    `env:"REDIS_POOL_SIZE,  default=0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX, default=console"`
}

// IsDevelopment reports whether human-friendly output should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration from l and validates it.
func LoadFrom(l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.TokenStore {
	case TokenStoreRedis, TokenStoreMemory:
	default:
		return fmt.Errorf("TOKEN_STORE must be %q or %q, got %q", TokenStoreRedis, TokenStoreMemory, c.Session.TokenStore)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("API_TIMEOUT must not be negative")
	}
	if c.Redis.PoolSize < 0 {
		return fmt.Errorf("REDIS_POOL_SIZE must not be negative")
	}
	if c.Session.ResolveWait <= 0 {
		return fmt.Errorf("RESOLVE_WAIT must be positive")
	}
	return nil
}
