package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/barber-agenda/internal/cache"
	infraRepo "github.com/BruksfildServices01/barber-agenda/internal/infra/repository"
	"github.com/BruksfildServices01/barber-agenda/internal/messaging"
	"github.com/BruksfildServices01/barber-agenda/internal/usecase/reminder"
)

// newRemindersCommand roda uma passada de lembretes e sai; pensado para cron.
func newRemindersCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Envia os lembretes da janela atual",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if timeout <= 0 {
				timeout = a.cfg.ReminderTimeout
			}
			if timeout <= 0 {
				timeout = 2 * time.Minute
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ctx, cancel := context.WithTimeout(sigCtx, timeout)
			defer cancel()

			var locker reminder.Locker
			if a.rdb != nil {
				locker = cache.NewRunLock(a.rdb, timeout)
			}

			uc := reminder.NewRunReminders(
				infraRepo.NewAppointmentGormRepository(a.db),
				messaging.NewSender(a.cfg.Messaging),
				locker,
				nil,
				a.log,
			)

			res, err := uc.Execute(ctx)
			if err != nil {
				return err
			}
			if res.AlreadyRunning {
				a.log.Info("another reminder run in progress, skipping")
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "limite da passada (padrão REMINDER_TIMEOUT)")

	return cmd
}
