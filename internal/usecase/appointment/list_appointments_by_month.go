package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/dto"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	companyID uint,
	barberID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	ve := &httperr.ValidationError{}
	if year < 2000 || year > 2100 {
		ve.Add("year", "invalid_year", "Ano inválido.")
	}
	if month < 1 || month > 12 {
		ve.Add("month", "invalid_month", "Mês inválido.")
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	company, err := findCompany(ctx, uc.repo, companyID, "")
	if err != nil {
		return nil, err
	}

	from, to := timezone.MonthRange(year, time.Month(month))

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		company.ID,
		barberID,
		from,
		to,
	)
	if err != nil {
		return nil, err
	}

	return dto.FromAppointments(appointments), nil
}
