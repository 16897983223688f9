package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/cache"
	"github.com/BruksfildServices01/barber-agenda/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-agenda/internal/db"
	"github.com/BruksfildServices01/barber-agenda/internal/logging"
)

// app guarda a infraestrutura comum aos subcomandos.
type app struct {
	cfg *config.Config
	log *slog.Logger
	db  *gorm.DB
	rdb *redis.Client
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg := config.Load()
	log := logging.New(cfg)
	slog.SetDefault(log)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return nil, err
	}

	rdb, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		// sem Redis o serviço funciona sem rate limit e sem lock
		log.Warn("redis unavailable, continuing without it", "err", err)
		rdb = nil
	}

	return &app{cfg: cfg, log: log, db: db, rdb: rdb}, nil
}

func (a *app) close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (a *app) migrate() error {
	if err := dbpkg.Migrate(a.db, a.log); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
