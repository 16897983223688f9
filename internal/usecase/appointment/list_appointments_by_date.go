package appointment

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/dto"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
	now  func() time.Time
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
		now:  time.Now,
	}
}

// Execute lista o dia inteiro, cancelados inclusive. barberID 0 = todos.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	companyID uint,
	barberID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	company, err := findCompany(ctx, uc.repo, companyID, "")
	if err != nil {
		return nil, err
	}

	date = strings.TrimSpace(date)
	if date == "" {
		date = timezone.Today(company.Timezone, uc.now())
	}

	next, err := timezone.NextDay(date)
	if err != nil {
		ve := &httperr.ValidationError{}
		ve.Add("date", "invalid_date", "Data inválida.")
		return nil, ve
	}

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		company.ID,
		barberID,
		date,
		next,
	)
	if err != nil {
		return nil, err
	}

	return dto.FromAppointments(appointments), nil
}
