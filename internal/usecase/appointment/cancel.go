package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

// Execute cancela e libera o trecho do barbeiro. Cancelar duas vezes é erro.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	companyID uint,
	userID *uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap *models.Appointment

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		found, err := tx.GetAppointment(ctx, companyID, appointmentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return httperr.ErrBusiness("appointment_not_found")
			}
			return err
		}

		if err := domain.Cancel(found, uc.now().UTC()); err != nil {
			return err
		}

		if err := tx.UpdateAppointment(ctx, found); err != nil {
			return err
		}

		ap = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		CompanyID: companyID,
		UserID:    userID,
		Action:    "appointment_cancelled",
		Entity:    "appointment",
		EntityID:  &ap.ID,
		Metadata: map[string]any{
			"date":      ap.Date,
			"time":      ap.Time,
			"barber_id": ap.BarberID,
		},
	})

	return ap, nil
}
