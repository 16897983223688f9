package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

// ErrNotFound é devolvido pelos repositórios quando o registro não existe
// para o tenant informado.
var ErrNotFound = errors.New("record not found")

type Repository interface {
	// Transaction executa fn com um repositório preso à mesma transação.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Company --------
	GetCompanyByID(
		ctx context.Context,
		id uint,
	) (*models.Company, error)

	GetCompanyBySlug(
		ctx context.Context,
		slug string,
	) (*models.Company, error)

	ListCompanies(
		ctx context.Context,
	) ([]models.Company, error)

	// nil, nil quando não há configuração para o dia
	GetBusinessHours(
		ctx context.Context,
		companyID uint,
		weekday int,
	) (*models.BusinessHours, error)

	// -------- Catalog --------
	ListActiveServices(
		ctx context.Context,
		companyID uint,
	) ([]models.Service, error)

	// -------- Barber --------
	GetBarber(
		ctx context.Context,
		companyID uint,
		barberID uint,
	) (*models.Barber, error)

	// LockBarber trava a linha do barbeiro até o fim da transação.
	LockBarber(
		ctx context.Context,
		companyID uint,
		barberID uint,
	) (*models.Barber, error)

	ListActiveBarbers(
		ctx context.Context,
		companyID uint,
	) ([]models.Barber, error)

	// -------- Blocks --------
	ListBlocks(
		ctx context.Context,
		companyID uint,
		date string,
	) ([]models.Block, error)

	// UpsertBlock é idempotente: reaplicar o mesmo bloqueio não gera erro.
	UpsertBlock(
		ctx context.Context,
		b *models.Block,
	) error

	DeleteBarberBlocksAt(
		ctx context.Context,
		companyID uint,
		date string,
		slot string,
	) error

	DeleteBlock(
		ctx context.Context,
		companyID uint,
		date string,
		slot string,
		barberID uint,
	) (int64, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		companyID uint,
		name string,
		phone string,
		social string,
	) (*models.Client, error)

	// -------- Appointment (create / conflict) --------
	ListScheduledForDay(
		ctx context.Context,
		companyID uint,
		date string,
	) ([]models.Appointment, error)

	HasDuplicate(
		ctx context.Context,
		companyID uint,
		barberID uint,
		date string,
		slot string,
		phone string,
	) (bool, error)

	HasTimeConflict(
		ctx context.Context,
		companyID uint,
		barberID uint,
		start time.Time,
		end time.Time,
	) (bool, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		companyID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Listing --------
	// barberID 0 lista todos; datas no formato YYYY-MM-DD, [from, to)
	ListAppointmentsForPeriod(
		ctx context.Context,
		companyID uint,
		barberID uint,
		fromDate string,
		toDate string,
	) ([]models.Appointment, error)

	// -------- Reminders --------
	ListReminderCandidates(
		ctx context.Context,
		companyID uint,
		date string,
		from string,
		to string,
	) ([]models.Appointment, error)

	// MarkReminderSent só grava se reminder_sent_at ainda for nulo.
	MarkReminderSent(
		ctx context.Context,
		appointmentID uint,
		at time.Time,
	) (bool, error)
}
