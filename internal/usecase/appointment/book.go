package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/domain/scheduling"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

// BookAppointment é o agendamento feito pelo cliente na página pública.
type BookAppointment struct {
	writer
}

func NewBookAppointment(d Deps) *BookAppointment {
	return &BookAppointment{writer: newWriter(d)}
}

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookingInput,
) (*models.Appointment, error) {

	p, err := uc.plan(ctx, in)
	if err != nil {
		return nil, uc.reject(err)
	}

	var created *models.Appointment

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		// serializa pedidos concorrentes para o mesmo barbeiro
		if _, err := tx.LockBarber(ctx, p.Company.ID, p.Barber.ID); err != nil {
			return err
		}

		if err := checkDuplicate(ctx, tx, p); err != nil {
			return err
		}

		blocks, err := tx.ListBlocks(ctx, p.Company.ID, p.Date)
		if err != nil {
			return err
		}
		scheduled, err := tx.ListScheduledForDay(ctx, p.Company.ID, p.Date)
		if err != nil {
			return err
		}

		bs := domain.ToBlockSet(blocks)
		occ := scheduling.BuildOccupancy(domain.ToBookings(scheduled), p.Grid)

		if !scheduling.IsAvailable(p.Barber.ID, p.Slot, p.SlotsNeeded, p.Grid, bs.For(p.Barber.ID), occ) {
			return unavailableReason(p, bs, occ)
		}

		// horários legados fora da grade não entram na ocupação
		conflict, err := tx.HasTimeConflict(ctx, p.Company.ID, p.Barber.ID, p.StartAt, p.EndAt)
		if err != nil {
			return err
		}
		if conflict {
			return errSlotUnavailable
		}

		created, err = persist(ctx, tx, p, domain.OriginPublic, in.Notes)
		return err
	})
	if err != nil {
		return nil, uc.reject(err)
	}

	uc.after(ctx, p, created, nil)
	return created, nil
}

// unavailableReason traduz o primeiro slot problemático do trecho em conflito.
func unavailableReason(p *bookingPlan, bs scheduling.BlockSet, occ scheduling.Occupancy) error {
	switch firstConflict(p.Barber.ID, p.Slot, p.SlotsNeeded, p.Grid, bs, occ) {
	case "ends_after_closing":
		return errEndsAfterClosing
	case "blocked":
		return errBlocked
	default:
		return errSlotUnavailable
	}
}
