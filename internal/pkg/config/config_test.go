package config

import (
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("expected port 3000, got %s", cfg.Port)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("unexpected API base url %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 0 {
		t.Errorf("expected no API timeout, got %v", cfg.API.Timeout)
	}
	if cfg.Session.TokenStore != TokenStoreRedis || cfg.Session.TokenTTL != 24*time.Hour {
		t.Errorf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.Mongo.URI != "" {
		t.Errorf("expected no mongo uri by default, got %s", cfg.Mongo.URI)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(envconfig.MapLookuper(map[string]string{
		"TOKEN_STORE":   "memory",
		"API_TIMEOUT":   "15s",
		"COOKIE_SECURE": "true",
		"ENV":           "production",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Session.TokenStore != TokenStoreMemory || cfg.API.Timeout != 15*time.Second || !cfg.Session.CookieSecure {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.IsDevelopment() {
		t.Error("expected production")
	}
}

func TestLoadFrom_RejectsUnknownTokenStore(t *testing.T) {
	_, err := LoadFrom(envconfig.MapLookuper(map[string]string{"TOKEN_STORE": "etcd"}))
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestLoadFrom_StoreSettings(t *testing.T) {
	cfg, err := LoadFrom(envconfig.MapLookuper(map[string]string{
		"REDIS_PASSWORD":   "hunter2",
		"REDIS_POOL_SIZE":  "20",
		"REDIS_KEY_PREFIX": "staging",
		"MONGO_COLLECTION": "audit",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Redis.Password != "hunter2" || cfg.Redis.PoolSize != 20 || cfg.Redis.KeyPrefix != "staging" {
		t.Errorf("redis settings not applied: %+v", cfg.Redis)
	}
	if cfg.Mongo.Collection != "audit" {
		t.Errorf("expected collection audit, got %s", cfg.Mongo.Collection)
	}

	defaults, err := LoadFrom(envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if defaults.Redis.KeyPrefix != "console" || defaults.Mongo.Collection != "console_events" {
		t.Errorf("unexpected store defaults: %+v %+v", defaults.Redis, defaults.Mongo)
	}
}

func TestLoadFrom_RejectsNegativePoolSize(t *testing.T) {
	if _, err := LoadFrom(envconfig.MapLookuper(map[string]string{"REDIS_POOL_SIZE": "-1"})); err == nil {
		t.Fatal("expected an error")
	}
}
