package appointment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/domain/scheduling"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/messaging"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/telemetry"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type BookingInput struct {
	CompanyID uint
	Slug      string
	BarberID  uint

	Date     string
	Time     string
	Services []string

	CustomerName   string
	CustomerPhone  string
	CustomerSocial string
	Notes          string

	// preenchido apenas pelo caminho interno
	UserID *uint
}

// bookingPlan é o pedido já validado, pronto para a checagem de conflito.
type bookingPlan struct {
	Company     *models.Company
	Barber      *models.Barber
	Date        string
	Slot        string
	EndsAt      string
	Name        string
	Phone       string
	Social      string
	Selection   scheduling.Selection
	SlotsNeeded int
	Grid        scheduling.Grid
	StartAt     time.Time
	EndAt       time.Time
}

// ======================================================
// SHARED WRITER
// ======================================================

type Deps struct {
	Repo    domain.Repository
	Sender  messaging.Sender
	Audit   *audit.Dispatcher
	Metrics *telemetry.Metrics
	Log     *slog.Logger
}

type writer struct {
	repo    domain.Repository
	sender  messaging.Sender
	audit   *audit.Dispatcher
	metrics *telemetry.Metrics
	log     *slog.Logger
	now     func() time.Time
}

func newWriter(d Deps) writer {
	sender := d.Sender
	if sender == nil {
		sender = messaging.NewNoopSender()
	}
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	return writer{
		repo:    d.Repo,
		sender:  sender,
		audit:   d.Audit,
		metrics: d.Metrics,
		log:     log,
		now:     time.Now,
	}
}

// plan executa a validação de entrada acumulando todos os problemas.
func (w *writer) plan(ctx context.Context, in BookingInput) (*bookingPlan, error) {
	company, err := findCompany(ctx, w.repo, in.CompanyID, in.Slug)
	if err != nil {
		return nil, err
	}

	ve := &httperr.ValidationError{}
	p := &bookingPlan{
		Company: company,
		Date:    strings.TrimSpace(in.Date),
		Slot:    strings.TrimSpace(in.Time),
		Name:    strings.TrimSpace(in.CustomerName),
		Social:  strings.TrimSpace(in.CustomerSocial),
	}

	// --------------------------------------------------
	// 1️⃣ Cliente
	// --------------------------------------------------
	if p.Name == "" {
		ve.Add("customer_name", "required", "Informe seu nome.")
	}

	if strings.TrimSpace(in.CustomerPhone) == "" {
		ve.Add("customer_phone", "required", "Informe seu telefone.")
	} else if phone, err := messaging.NormalizePhone(in.CustomerPhone); err != nil {
		ve.Add("customer_phone", "invalid_phone", "Telefone inválido.")
	} else {
		p.Phone = phone
	}

	// --------------------------------------------------
	// 2️⃣ Data (hoje é permitido)
	// --------------------------------------------------
	now := w.now()
	today := timezone.Today(company.Timezone, now)

	day, dateErr := timezone.ParseDate(company.Timezone, p.Date)
	if dateErr != nil {
		ve.Add("date", "invalid_date", "Data inválida.")
	} else if p.Date < today {
		ve.Add("date", "past_date", "Não é possível agendar em data passada.")
	}

	// --------------------------------------------------
	// 3️⃣ Barbeiro
	// --------------------------------------------------
	if in.BarberID == 0 {
		ve.Add("barber_id", "required", "Escolha um barbeiro.")
	} else {
		barber, err := w.repo.GetBarber(ctx, company.ID, in.BarberID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			ve.Add("barber_id", "barber_not_found", "Barbeiro não encontrado.")
		case err != nil:
			return nil, err
		case !barber.Active:
			ve.Add("barber_id", "barber_inactive", "Este barbeiro não está atendendo.")
		default:
			p.Barber = barber
		}
	}

	// --------------------------------------------------
	// 4️⃣ Serviços
	// --------------------------------------------------
	catalog, _ := loadCatalog(ctx, w.repo, w.log, company.ID)
	p.Selection = scheduling.Calculate(scheduling.NormalizeServices(in.Services, catalog), catalog)
	if p.Selection.Empty() {
		ve.Add("services", "no_valid_service", "Selecione ao menos um serviço.")
	}

	// --------------------------------------------------
	// 5️⃣ Horário na grade do dia
	// --------------------------------------------------
	if _, ok := scheduling.ParseHM(p.Slot); !ok {
		ve.Add("time", "invalid_time", "Horário inválido.")
	} else if dateErr == nil {
		wh, err := w.repo.GetBusinessHours(ctx, company.ID, domain.Weekday(day))
		if err != nil {
			return nil, err
		}
		hours := domain.ResolveDayHours(company, wh)
		p.Grid = hours.Grid()

		switch {
		case hours.Closed:
			ve.Add("date", "closed_day", "A barbearia não abre neste dia.")
		case !p.Grid.Contains(p.Slot):
			ve.Add("time", "not_in_grid", "Horário fora da grade de atendimento.")
		case pastSlot(today, scheduling.ClockOf(timezone.In(company.Timezone, now)), p.Date, p.Slot):
			ve.Add("time", "past_time", "Este horário já passou.")
		}
	}

	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	p.SlotsNeeded = scheduling.MinutesToSlots(p.Selection.TotalMinutes, p.Grid.Interval)

	p.StartAt, err = timezone.At(company.Timezone, p.Date, p.Slot)
	if err != nil {
		return nil, err
	}
	p.EndAt = p.StartAt.Add(time.Duration(p.Selection.TotalMinutes) * time.Minute)

	endsAt, ok := scheduling.EndTime(p.Slot, p.Selection.TotalMinutes)
	if !ok || !p.Grid.FitsBeforeClose(p.Slot, p.Selection.TotalMinutes) {
		return nil, errEndsAfterClosing
	}
	p.EndsAt = endsAt

	return p, nil
}

var (
	errEndsAfterClosing = httperr.ErrConflict("ends_after_closing", "O atendimento terminaria depois do horário de fechamento.")
	errSlotUnavailable  = httperr.ErrConflict("slot_unavailable", "Horário indisponível para este barbeiro.")
	errBlocked          = httperr.ErrConflict("blocked", "Horário bloqueado pela barbearia.")
	errDuplicate        = httperr.ErrConflict("duplicate_booking", "Você já tem um agendamento neste horário.")
)

// checkDuplicate é a proteção contra reenvio: mesmo barbeiro, data, horário e telefone.
func checkDuplicate(ctx context.Context, tx domain.Repository, p *bookingPlan) error {
	dup, err := tx.HasDuplicate(ctx, p.Company.ID, p.Barber.ID, p.Date, p.Slot, p.Phone)
	if err != nil {
		return err
	}
	if dup {
		return errDuplicate
	}
	return nil
}

// persist grava cliente e agendamento dentro da transação corrente.
func persist(
	ctx context.Context,
	tx domain.Repository,
	p *bookingPlan,
	origin domain.Origin,
	notes string,
) (*models.Appointment, error) {

	client, err := tx.GetOrCreateClient(ctx, p.Company.ID, p.Name, p.Phone, p.Social)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		CompanyID:      p.Company.ID,
		BarberID:       p.Barber.ID,
		ClientID:       &client.ID,
		CustomerName:   p.Name,
		CustomerPhone:  p.Phone,
		CustomerSocial: p.Social,
		Date:           p.Date,
		Time:           p.Slot,
		EndsAt:         p.EndsAt,
		StartAt:        p.StartAt,
		EndAt:          p.EndAt,
		TotalPrice:     p.Selection.TotalPrice,
		TotalMinutes:   p.Selection.TotalMinutes,
		Status:         string(domain.InitialStatus()),
		Origin:         string(origin),
		Notes:          strings.TrimSpace(notes),
	}
	ap.SetServiceKeys(p.Selection.Keys)

	if err := tx.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	ap.Barber = *p.Barber
	return ap, nil
}

// after roda depois do commit: confirmação, auditoria e métricas.
// Nenhuma falha aqui desfaz o agendamento.
func (w *writer) after(ctx context.Context, p *bookingPlan, ap *models.Appointment, userID *uint) {
	w.metrics.BookingCreated(ap.Origin)

	w.audit.Dispatch(audit.Event{
		CompanyID: ap.CompanyID,
		UserID:    userID,
		Action:    "appointment_created",
		Entity:    "appointment",
		EntityID:  &ap.ID,
		Metadata: map[string]any{
			"origin":    ap.Origin,
			"barber_id": ap.BarberID,
			"date":      ap.Date,
			"time":      ap.Time,
			"services":  p.Selection.Keys,
		},
	})

	msg := messaging.ConfirmationText(messaging.AppointmentMessage{
		CompanyName:  p.Company.Name,
		CustomerName: ap.CustomerName,
		BarberName:   p.Barber.Name,
		Date:         ap.Date,
		Time:         ap.Time,
		Services:     p.Selection.Labels,
	})

	if err := w.sender.Send(ctx, ap.CustomerPhone, msg); err != nil {
		w.metrics.MessageFailed()
		w.log.Warn("confirmation not delivered",
			"appointment_id", ap.ID,
			"provider", w.sender.ProviderID(),
			"err", err,
		)
	}
}

// reject registra a métrica do motivo da recusa e devolve o erro intacto.
func (w *writer) reject(err error) error {
	var ce httperr.ConflictError
	switch {
	case errors.As(err, &ce):
		w.metrics.BookingRejected(ce.Code)
	case isValidation(err):
		w.metrics.BookingRejected("validation")
	}
	return err
}

func isValidation(err error) bool {
	_, ok := httperr.AsValidation(err)
	return ok
}
