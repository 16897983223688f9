package reminder

import (
	"context"
	"log/slog"
	"time"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/domain/scheduling"
	"github.com/BruksfildServices01/barber-agenda/internal/messaging"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/telemetry"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

const lockKey = "reminders"

// Locker evita execuções sobrepostas entre instâncias.
// release == nil significa que outra execução está em andamento.
type Locker interface {
	TryLock(ctx context.Context, key string) (release func(), err error)
}

type Result struct {
	AlreadyRunning bool `json:"already_running"`
	Companies      int  `json:"companies"`
	Candidates     int  `json:"candidates"`
	Sent           int  `json:"sent"`
	Failed         int  `json:"failed"`
}

type RunReminders struct {
	repo    domain.Repository
	sender  messaging.Sender
	locker  Locker
	metrics *telemetry.Metrics
	log     *slog.Logger
	now     func() time.Time
}

func NewRunReminders(
	repo domain.Repository,
	sender messaging.Sender,
	locker Locker,
	metrics *telemetry.Metrics,
	log *slog.Logger,
) *RunReminders {
	if sender == nil {
		sender = messaging.NewNoopSender()
	}
	if log == nil {
		log = slog.Default()
	}
	return &RunReminders{
		repo:    repo,
		sender:  sender,
		locker:  locker,
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
}

// Execute faz uma passada por todas as empresas. Falha de envio de um
// agendamento não interrompe os demais; reminder_sent_at só é gravado
// depois de um envio confirmado.
func (uc *RunReminders) Execute(ctx context.Context) (*Result, error) {
	res := &Result{}

	if uc.locker != nil {
		release, err := uc.locker.TryLock(ctx, lockKey)
		switch {
		case err != nil:
			uc.log.Warn("reminder lock unavailable, running anyway", "err", err)
		case release == nil:
			res.AlreadyRunning = true
			return res, nil
		default:
			defer release()
		}
	}

	companies, err := uc.repo.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now()

	for _, company := range companies {
		if ctx.Err() != nil {
			uc.log.Warn("reminder run interrupted", "err", ctx.Err())
			break
		}

		res.Companies++
		uc.runCompany(ctx, company, now, res)
	}

	uc.log.Info("reminder run finished",
		"companies", res.Companies,
		"candidates", res.Candidates,
		"sent", res.Sent,
		"failed", res.Failed,
	)

	return res, nil
}

func (uc *RunReminders) runCompany(
	ctx context.Context,
	company models.Company,
	now time.Time,
	res *Result,
) {

	local := timezone.In(company.Timezone, now)

	for _, w := range scheduling.ReminderWindows(local) {
		candidates, err := uc.repo.ListReminderCandidates(ctx, company.ID, w.Date, w.From, w.To)
		if err != nil {
			uc.log.Error("reminder candidates unavailable",
				"company_id", company.ID, "date", w.Date, "err", err)
			continue
		}

		for _, ap := range candidates {
			if ctx.Err() != nil {
				return
			}
			res.Candidates++

			if uc.deliver(ctx, company, ap, now) {
				res.Sent++
			} else {
				res.Failed++
			}
		}
	}
}

func (uc *RunReminders) deliver(
	ctx context.Context,
	company models.Company,
	ap models.Appointment,
	now time.Time,
) bool {

	msg := messaging.ReminderText(messaging.AppointmentMessage{
		CompanyName:  company.Name,
		CustomerName: ap.CustomerName,
		BarberName:   ap.Barber.Name,
		Date:         ap.Date,
		Time:         ap.Time,
		Services:     ap.ServiceKeys(),
	})

	if err := uc.sender.Send(ctx, ap.CustomerPhone, msg); err != nil {
		uc.metrics.ReminderResult("failed")
		uc.metrics.MessageFailed()
		uc.log.Warn("reminder not delivered, will retry next run",
			"appointment_id", ap.ID,
			"provider", uc.sender.ProviderID(),
			"err", err,
		)
		return false
	}

	marked, err := uc.repo.MarkReminderSent(ctx, ap.ID, now.UTC())
	if err != nil {
		// o envio aconteceu; sem a marca o cliente pode receber de novo
		uc.log.Error("reminder sent but not recorded", "appointment_id", ap.ID, "err", err)
	} else if !marked {
		uc.log.Warn("reminder already recorded by another run", "appointment_id", ap.ID)
	}

	uc.metrics.ReminderResult("sent")
	return true
}
