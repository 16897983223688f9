package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	"github.com/BruksfildServices01/barber-agenda/internal/cache"
	"github.com/BruksfildServices01/barber-agenda/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barber-agenda/internal/infra/repository"
	"github.com/BruksfildServices01/barber-agenda/internal/messaging"
	"github.com/BruksfildServices01/barber-agenda/internal/routes"
	"github.com/BruksfildServices01/barber-agenda/internal/telemetry"
)

func newServeCommand() *cobra.Command {
	var (
		shutdownTimeout time.Duration
		skipMigrate     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Sobe a API HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if !skipMigrate {
				if err := a.migrate(); err != nil {
					return err
				}
			}

			shutdownTracing, err := telemetry.SetupTracing(ctx, a.cfg.Telemetry)
			if err != nil {
				return err
			}

			dispatcher := audit.NewDispatcher(audit.NewGormStore(a.db), a.log)
			defer dispatcher.Close()

			deps := routes.Deps{
				DB:      a.db,
				Repo:    infraRepo.NewAppointmentGormRepository(a.db),
				Config:  a.cfg,
				Log:     a.log,
				Audit:   dispatcher,
				Metrics: telemetry.NewMetrics(),
				Sender:  messaging.NewSender(a.cfg.Messaging),
				Health:  map[string]handlers.Pinger{},
			}

			if sqlDB, err := a.db.DB(); err == nil {
				deps.Health["database"] = sqlDB
			}
			if a.rdb != nil {
				deps.Limiter = cache.NewRateLimiter(a.rdb, a.cfg.PublicRateLimit, time.Minute, "rl:public")
				deps.Locker = cache.NewRunLock(a.rdb, a.cfg.ReminderTimeout)
				deps.Health["redis"] = cache.NewHealthCheck(a.rdb)
			}

			r := routes.NewEngine(a.cfg)
			routes.RegisterRoutes(r, deps)

			srv := &http.Server{
				Addr:              a.cfg.Addr(),
				Handler:           otelhttp.NewHandler(r, "barber-agenda"),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				a.log.Info("server running", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			g.Go(func() error {
				<-gctx.Done()
				a.log.Info("shutting down")

				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				err := srv.Shutdown(sctx)
				if terr := shutdownTracing(sctx); terr != nil {
					a.log.Warn("tracer shutdown", "err", terr)
				}
				return err
			})

			return g.Wait()
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 15*time.Second, "tempo máximo para encerrar conexões")
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", os.Getenv("SKIP_MIGRATE") == "true", "não roda as migrations ao subir")

	return cmd
}
