package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-agenda/internal/config"
)

// NewClient conecta no Redis. Sem REDIS_ADDR devolve nil, nil e quem usa
// trata o limitador e o lock como desligados.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// ======================================================
// FIXED WINDOW RATE LIMIT
// ======================================================

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration, prefix string) *RateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "rl"
	}
	return &RateLimiter{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

// Allow conta o pedido na janela corrente de key.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := rl.incr(ctx, rl.prefix+":"+key)
	if err != nil {
		return false, err
	}
	return n <= int64(rl.limit), nil
}

func (rl *RateLimiter) incr(ctx context.Context, key string) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, rl.rdb, []string{key}, rl.window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}

	switch v := res.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
}

// ======================================================
// RUN LOCK
// ======================================================

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RunLock impede duas execuções simultâneas do mesmo job entre instâncias.
type RunLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRunLock(rdb *redis.Client, ttl time.Duration) *RunLock {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RunLock{rdb: rdb, ttl: ttl}
}

// TryLock devolve release != nil só quando o lock foi obtido.
func (l *RunLock) TryLock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, "lock:"+key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	return func() {
		// só apaga se o lock ainda for nosso
		_ = releaseScript.Run(context.Background(), l.rdb, []string{"lock:" + key}, token).Err()
	}, nil
}

// ======================================================
// HEALTH
// ======================================================

type HealthCheck struct {
	rdb *redis.Client
}

func NewHealthCheck(rdb *redis.Client) *HealthCheck {
	return &HealthCheck{rdb: rdb}
}

func (h *HealthCheck) PingContext(ctx context.Context) error {
	return h.rdb.Ping(ctx).Err()
}
