package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("REDIS_ADDR", "")

	cfg := Load()

	if cfg.Addr() != ":8080" {
		t.Fatalf("Addr = %s", cfg.Addr())
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("redis must be disabled by default")
	}
	if cfg.Messaging.Provider != "noop" {
		t.Fatalf("provider = %q", cfg.Messaging.Provider)
	}
	if cfg.PublicRateLimit != 60 {
		t.Fatalf("rate limit = %d", cfg.PublicRateLimit)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("cors must allow any origin by default, got %v", cfg.CORSOrigins)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("MESSAGING_PROVIDER", "Evolution")
	t.Setenv("MESSAGING_BASE_URL", "http://evo.local/")
	t.Setenv("MESSAGING_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.com, ,https://b.com")

	cfg := Load()

	if cfg.Addr() != ":9090" {
		t.Fatalf("Addr = %s", cfg.Addr())
	}
	if !cfg.Redis.Enabled() || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("redis = %+v", cfg.Redis)
	}
	if cfg.Messaging.Provider != "evolution" || cfg.Messaging.BaseURL != "http://evo.local" {
		t.Fatalf("messaging = %+v", cfg.Messaging)
	}
	if cfg.Messaging.Timeout != 3*time.Second {
		t.Fatalf("timeout = %s", cfg.Messaging.Timeout)
	}
	if cfg.PublicRateLimit != 10 {
		t.Fatalf("rate limit = %d", cfg.PublicRateLimit)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.com" {
		t.Fatalf("cors = %v", cfg.CORSOrigins)
	}
}
